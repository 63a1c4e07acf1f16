package models

import "time"

// User 账号实体,密码只保存 bcrypt 哈希,序列化时不输出。
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// Room 是用户私有的对话房间,UserID 创建后不可变更。
type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Message 保存一轮对话:用户输入与 AI 回复,两侧都可能为空。
// 上下文重建依赖 CreatedAt/ID 的时间顺序。
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	RoomID      uint      `gorm:"index:idx_msg_room_id;not null" json:"roomId"`
	UserMessage string    `gorm:"type:text" json:"userMessage"`
	AIResponse  string    `gorm:"type:text" json:"aiResponse"`
	CreatedAt   time.Time `json:"createdAt"`
}
