package model

import (
	"time"

	"gorm.io/gorm"
)

// Report 审核审计记录，只追加不修改
type Report struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time        `gorm:"index" json:"createdAt"`
	ModeratorID uint             `gorm:"index;not null" json:"moderatorId"`
	Moderator   User             `gorm:"foreignKey:ModeratorID" json:"-"`
	ContentType ContentType      `gorm:"size:20;not null;index:idx_report_target" json:"contentType"`
	ContentID   string           `gorm:"size:36;not null;index:idx_report_target" json:"contentId"`
	TargetUser  uint             `gorm:"index" json:"targetUserId"`
	Action      ModerationAction `gorm:"size:20;not null" json:"action"`
	Reason      string           `gorm:"size:500" json:"reason"`
	Notes       string           `gorm:"size:1000" json:"notes"`
}

func (Report) TableName() string {
	return "reports"
}

// BeforeUpdate 审计记录不可变
func (r *Report) BeforeUpdate(tx *gorm.DB) error {
	return Forbiddenf("reports are append-only")
}
