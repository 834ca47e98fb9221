package repository

import (
	"stackit_backend/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

// Create 在共享锁下确认答案存在且未删除后写入评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var answer model.Answer
		err := tx.Clauses(forShare).
			Select("id", "is_deleted").
			First(&answer, "id = ?", comment.AnswerID).Error
		if err != nil {
			return notFound(err, "answer")
		}
		if !answer.Live() {
			return model.NotFoundf("answer not found")
		}
		return tx.Create(comment).Error
	})
}

func (r *CommentRepository) FindByID(id string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.DB.Preload("Author").First(&comment, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "comment")
	}
	return &comment, nil
}

// ListByAnswer 按时间正序
func (r *CommentRepository) ListByAnswer(answerID string, page, limit int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	query := r.DB.Model(&model.Comment{}).Where("answer_id = ? AND is_deleted = ?", answerID, false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC").
		Offset(offset(page, limit)).Limit(limit).
		Preload("Author").
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *CommentRepository) Update(comment *model.Comment) error {
	res := r.DB.Model(comment).
		Where("is_deleted = ?", false).
		Select("content", "moderation_status", "is_moderated").
		Updates(comment)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundf("comment not found")
	}
	return nil
}

func (r *CommentRepository) SoftDelete(id string) error {
	res := r.DB.Model(&model.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundf("comment not found")
	}
	return nil
}
