package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifyAnswer    NotificationType = "answer"
	NotifyComment   NotificationType = "comment"
	NotifyMention   NotificationType = "mention"
	NotifyAccept    NotificationType = "accept"
	NotifyBroadcast NotificationType = "admin_broadcast"
)

type Notification struct {
	ID              uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt       time.Time        `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	RecipientID     uint             `gorm:"index:idx_notification_inbox;not null" json:"recipientId"`
	SenderID        uint             `gorm:"not null" json:"senderId"`
	Sender          User             `gorm:"foreignKey:SenderID" json:"-"`
	Type            NotificationType `gorm:"size:20;not null" json:"type"`
	Title           string           `gorm:"size:100;not null" json:"title"`
	Message         string           `gorm:"size:500;not null" json:"message"`
	RelatedQuestion *string          `gorm:"type:varchar(36)" json:"relatedQuestion,omitempty"`
	RelatedAnswer   *string          `gorm:"type:varchar(36)" json:"relatedAnswer,omitempty"`
	RelatedComment  *string          `gorm:"type:varchar(36)" json:"relatedComment,omitempty"`
	IsRead          bool             `gorm:"index:idx_notification_inbox;default:false" json:"isRead"`
	IsDeleted       bool             `gorm:"index:idx_notification_inbox;default:false" json:"-"`
	SenderSummary   UserSummary      `gorm:"-" json:"sender"`
}

func (n *Notification) AfterFind(tx *gorm.DB) error {
	n.SenderSummary = n.Sender.Summary()
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}
