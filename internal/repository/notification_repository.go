package repository

import (
	"stackit_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) inbox(recipientID uint) *gorm.DB {
	return r.DB.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_deleted = ?", recipientID, false)
}

func (r *NotificationRepository) List(recipientID uint, page, limit int, unreadOnly bool) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	query := r.inbox(recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset(page, limit)).Limit(limit).
		Preload("Sender").
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepository) UnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.inbox(recipientID).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

// MarkRead 只能操作自己的通知，其他人的通知视为不存在
func (r *NotificationRepository) MarkRead(id, recipientID uint) error {
	var n model.Notification
	if err := r.inbox(recipientID).Where("id = ?", id).Take(&n).Error; err != nil {
		return notFound(err, "notification")
	}
	return r.DB.Model(&n).Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(recipientID uint) (int64, error) {
	res := r.inbox(recipientID).Where("is_read = ?", false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) Delete(id, recipientID uint) error {
	res := r.inbox(recipientID).Where("id = ?", id).Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundf("notification not found")
	}
	return nil
}
