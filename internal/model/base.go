package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ContentRecord 问题/回答/评论共享的字段
// 不使用 gorm.DeletedAt：软删除内容需要保留给管理员审计，由 IsDeleted 显式过滤
type ContentRecord struct {
	ID               string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AuthorID         uint             `gorm:"index;not null" json:"authorId"`
	Content          string           `gorm:"type:text;not null" json:"content"`
	ModerationStatus ModerationStatus `gorm:"size:10;default:'green';index" json:"moderationStatus"`
	IsModerated      bool             `gorm:"default:false" json:"isModerated"`
	IsDeleted        bool             `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (c *ContentRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = GenerateUUID()
	}
	if c.ModerationStatus == "" {
		c.ModerationStatus = ModerationGreen
	}
	return
}

// Live 未被软删除
func (c *ContentRecord) Live() bool {
	return c != nil && !c.IsDeleted
}

func GenerateUUID() string {
	return uuid.New().String()
}
