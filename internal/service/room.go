package service

import (
	"errors"

	"github.com/Suhwan623/ai-weeclass/internal/models"

	"gorm.io/gorm"
)

// RoomService 封装房间的所有权受限 CRUD。
type RoomService struct {
	db *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{db: db}
}

// Create 为请求者创建新房间。
func (s *RoomService) Create(name string, userID uint) (*models.Room, error) {
	room := models.Room{Name: name, UserID: userID}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// Get 按主键加载房间,先区分不存在再检查归属。
func (s *RoomService) Get(id, userID uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if err := authorize(room.UserID, userID); err != nil {
		return nil, err
	}
	return &room, nil
}

// List 返回请求者的全部房间。
func (s *RoomService) List(userID uint) ([]models.Room, error) {
	rooms := make([]models.Room, 0)
	if err := s.db.Where("user_id = ?", userID).Order("id asc").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// Rename 修改房间名,归属不符返回 ErrAccessDenied。
func (s *RoomService) Rename(id, userID uint, name string) (*models.Room, error) {
	room, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(room).Update("name", name).Error; err != nil {
		return nil, err
	}
	return room, nil
}

// Delete 删除房间并级联删除其消息,两者在同一事务内完成。
func (s *RoomService) Delete(id, userID uint) error {
	room, err := s.Get(id, userID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(room).Error
	})
}

// DeleteAll 删除请求者的全部房间及房间内消息。
// 删除条件直接以 user_id 过滤,无需逐行所有权检查。
func (s *RoomService) DeleteAll(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&models.Room{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("room_id IN (?)", sub).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.Room{}).Error
	})
}
