package service

import (
	"errors"

	"github.com/Suhwan623/ai-weeclass/internal/auth"
	"github.com/Suhwan623/ai-weeclass/internal/models"

	"gorm.io/gorm"
)

// UserService 封装账号相关的业务逻辑。
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Signup 注册新用户,用户名冲突时返回 ErrUsernameConflict。
// 冲突判定交给唯一索引,并发注册同名用户时败者同样拿到 409。
func (s *UserService) Signup(username, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Username: username, PasswordHash: hash}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameConflict
		}
		return nil, err
	}
	return &user, nil
}

// GetOne 按主键查询用户。
func (s *UserService) GetOne(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
