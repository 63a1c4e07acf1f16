package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Suhwan623/ai-weeclass/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB opens a fresh in-memory sqlite database per test.
// Shared cache keeps the database alive across pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.Room{}, &models.Message{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func createTestUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &user
}

func createTestRoom(t *testing.T, gdb *gorm.DB, name string, userID uint) *models.Room {
	t.Helper()
	room := models.Room{Name: name, UserID: userID}
	if err := gdb.Create(&room).Error; err != nil {
		t.Fatalf("create test room: %v", err)
	}
	return &room
}
