package service

import (
	"errors"
	"time"

	"github.com/Suhwan623/ai-weeclass/internal/auth"
	"github.com/Suhwan623/ai-weeclass/internal/config"
	"github.com/Suhwan623/ai-weeclass/internal/models"

	"gorm.io/gorm"
)

// AuthService 负责凭证校验与 token 对的签发/换发。
// 会话状态完全由客户端持有的 token 对表示,服务端不落任何记录。
type AuthService struct {
	db  *gorm.DB
	cfg config.Config
}

func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Identity 是通过凭证校验后的最小用户身份。
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// TokenPair 登录或刷新成功后返回的 token 对。
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ValidateCredentials 校验用户名密码。
// 用户不存在与密码错误返回同一个错误,避免用户名枚举。
func (s *AuthService) ValidateCredentials(username, password string) (*Identity, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidInput
	}
	return &Identity{ID: user.ID, Username: user.Username}, nil
}

// Login 为身份签发一对 access/refresh token。
func (s *AuthService) Login(id Identity) (*TokenPair, error) {
	return s.issuePair(id)
}

// Refresh 校验 refresh token 并换发新 token 对。
// access token 不得用于换发;refresh token 用后不作废,到期自然失效。
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := auth.ParseToken(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenKind != auth.KindRefresh {
		return nil, ErrInvalidToken
	}
	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.issuePair(Identity{ID: user.ID, Username: user.Username})
}

func (s *AuthService) issuePair(id Identity) (*TokenPair, error) {
	accessTTL := time.Duration(s.cfg.AccessTokenTTLHours) * time.Hour
	refreshTTL := time.Duration(s.cfg.RefreshTokenTTLDays) * 24 * time.Hour

	at, err := auth.SignToken(id.ID, id.Username, auth.KindAccess, s.cfg.JWTSecret, accessTTL)
	if err != nil {
		return nil, err
	}
	rt, err := auth.SignToken(id.ID, id.Username, auth.KindRefresh, s.cfg.JWTSecret, refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: at, RefreshToken: rt}, nil
}
