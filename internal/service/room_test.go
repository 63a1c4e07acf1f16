package service

import (
	"testing"

	"github.com/Suhwan623/ai-weeclass/internal/models"
)

func TestRoomCRUD(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoomService(gdb)
	alice := createTestUser(t, gdb, "alice")

	room, err := svc.Create("counseling", alice.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if room.ID == 0 || room.UserID != alice.ID {
		t.Fatalf("Create() = %+v, want owner %d", room, alice.ID)
	}

	got, err := svc.Get(room.ID, alice.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "counseling" {
		t.Errorf("Get() Name = %v, want counseling", got.Name)
	}

	rooms, err := svc.List(alice.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rooms) != 1 {
		t.Errorf("List() len = %d, want 1", len(rooms))
	}

	renamed, err := svc.Rename(room.ID, alice.ID, "daily talk")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if renamed.Name != "daily talk" {
		t.Errorf("Rename() Name = %v, want daily talk", renamed.Name)
	}

	if err := svc.Delete(room.ID, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(room.ID, alice.ID); err != ErrRoomNotFound {
		t.Errorf("Get() after delete error = %v, want ErrRoomNotFound", err)
	}
}

func TestRoom_OwnershipGuard(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoomService(gdb)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")
	room := createTestRoom(t, gdb, "alice room", alice.ID)

	// A non-owner gets AccessDenied, not NotFound, and the room is unaffected
	tests := []struct {
		name string
		call func() error
	}{
		{"get", func() error { _, err := svc.Get(room.ID, bob.ID); return err }},
		{"rename", func() error { _, err := svc.Rename(room.ID, bob.ID, "stolen"); return err }},
		{"delete", func() error { return svc.Delete(room.ID, bob.ID) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != ErrAccessDenied {
				t.Errorf("error = %v, want ErrAccessDenied", err)
			}
		})
	}

	var current models.Room
	if err := gdb.First(&current, room.ID).Error; err != nil {
		t.Fatalf("room should still exist: %v", err)
	}
	if current.Name != "alice room" || current.UserID != alice.ID {
		t.Errorf("room mutated by non-owner: %+v", current)
	}
}

func TestRoom_GetMissing(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoomService(gdb)
	alice := createTestUser(t, gdb, "alice")

	if _, err := svc.Get(42, alice.ID); err != ErrRoomNotFound {
		t.Errorf("Get(missing) error = %v, want ErrRoomNotFound", err)
	}
}

func TestRoom_DeleteCascadesMessages(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoomService(gdb)
	alice := createTestUser(t, gdb, "alice")
	room := createTestRoom(t, gdb, "alice room", alice.ID)
	keep := createTestRoom(t, gdb, "keep", alice.ID)

	for i := 0; i < 3; i++ {
		gdb.Create(&models.Message{UserID: alice.ID, RoomID: room.ID, UserMessage: "hi", AIResponse: "hello"})
	}
	gdb.Create(&models.Message{UserID: alice.ID, RoomID: keep.ID, UserMessage: "stay", AIResponse: "ok"})

	if err := svc.Delete(room.ID, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var gone, kept int64
	gdb.Model(&models.Message{}).Where("room_id = ?", room.ID).Count(&gone)
	gdb.Model(&models.Message{}).Where("room_id = ?", keep.ID).Count(&kept)
	if gone != 0 {
		t.Errorf("deleted room still has %d messages", gone)
	}
	if kept != 1 {
		t.Errorf("sibling room messages = %d, want 1", kept)
	}
}

func TestRoom_DeleteAllScopedToOwner(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRoomService(gdb)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")

	aliceRoom := createTestRoom(t, gdb, "a1", alice.ID)
	createTestRoom(t, gdb, "a2", alice.ID)
	bobRoom := createTestRoom(t, gdb, "b1", bob.ID)

	gdb.Create(&models.Message{UserID: alice.ID, RoomID: aliceRoom.ID, UserMessage: "hi"})
	gdb.Create(&models.Message{UserID: bob.ID, RoomID: bobRoom.ID, UserMessage: "yo"})

	if err := svc.DeleteAll(alice.ID); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}

	var aliceRooms, bobRooms, aliceMsgs, bobMsgs int64
	gdb.Model(&models.Room{}).Where("user_id = ?", alice.ID).Count(&aliceRooms)
	gdb.Model(&models.Room{}).Where("user_id = ?", bob.ID).Count(&bobRooms)
	gdb.Model(&models.Message{}).Where("user_id = ?", alice.ID).Count(&aliceMsgs)
	gdb.Model(&models.Message{}).Where("user_id = ?", bob.ID).Count(&bobMsgs)

	if aliceRooms != 0 || aliceMsgs != 0 {
		t.Errorf("alice data remains: rooms=%d msgs=%d", aliceRooms, aliceMsgs)
	}
	if bobRooms != 1 || bobMsgs != 1 {
		t.Errorf("bob data touched: rooms=%d msgs=%d, want 1/1", bobRooms, bobMsgs)
	}
}
