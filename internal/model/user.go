package model

import (
	"time"
)

type UserRole string

const (
	Guest     UserRole = "guest"
	Member    UserRole = "user"
	Moderator UserRole = "moderator"
	Admin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case Guest, Member, Moderator, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	Username string    `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"size:100;not null" json:"-"`
	Role     UserRole  `gorm:"size:20;default:'user'" json:"role"`
	Bio      string    `gorm:"size:500" json:"bio"`
	Avatar   string    `gorm:"size:255" json:"avatar"`
	IsBanned bool      `gorm:"default:false;index" json:"isBanned"`
	LastSeen time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary 内容列表中展示的作者信息
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (u *User) Summary() UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// PublicProfile 对其他用户可见的资料，不包含邮箱
type PublicProfile struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}
