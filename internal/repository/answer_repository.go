package repository

import (
	"errors"
	"stackit_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

const commentCountSQL = `(SELECT COUNT(*) FROM comments c
	WHERE c.answer_id = answers.id AND c.is_deleted = false) AS comment_count`

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// lockQuestion 锁定问题行，同一问题上的采纳/取消采纳/删除答案互斥
func lockQuestion(tx *gorm.DB, id string) (*model.Question, error) {
	var question model.Question
	if err := tx.Clauses(forUpdate).First(&question, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "question")
	}
	return &question, nil
}

func lockAnswer(tx *gorm.DB, id string) (*model.Answer, error) {
	var answer model.Answer
	if err := tx.Clauses(forUpdate).First(&answer, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "answer")
	}
	return &answer, nil
}

// lockAnswerWithQuestion 先锁问题再锁答案，与采纳流程的加锁顺序一致
func lockAnswerWithQuestion(tx *gorm.DB, answerID string) (*model.Question, *model.Answer, error) {
	var ref model.Answer
	if err := tx.Select("id", "question_id").First(&ref, "id = ?", answerID).Error; err != nil {
		return nil, nil, notFound(err, "answer")
	}
	question, err := lockQuestion(tx, ref.QuestionID)
	if err != nil {
		return nil, nil, err
	}
	answer, err := lockAnswer(tx, answerID)
	if err != nil {
		return nil, nil, err
	}
	return question, answer, nil
}

func saveAcceptance(tx *gorm.DB, answers ...*model.Answer) error {
	for _, a := range answers {
		if a == nil {
			continue
		}
		err := tx.Model(a).Select("is_accepted", "accepted_at").Updates(a).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func saveQuestionAcceptance(tx *gorm.DB, q *model.Question) error {
	return tx.Model(q).Select("accepted_answer_id", "is_answered", "answered_at").Updates(q).Error
}

// Create 在共享锁下确认问题存在且未删除后写入答案
func (r *AnswerRepository) Create(answer *model.Answer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var question model.Question
		err := tx.Clauses(forShare).
			Select("id", "is_deleted").
			First(&question, "id = ?", answer.QuestionID).Error
		if err != nil {
			return notFound(err, "question")
		}
		if !question.Live() {
			return model.NotFoundf("question not found")
		}
		return tx.Create(answer).Error
	})
}

func (r *AnswerRepository) FindByID(id string) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.Model(&model.Answer{}).
		Select("answers.*, "+commentCountSQL).
		Preload("Author").
		Where("answers.id = ?", id).
		First(&answer).Error
	if err != nil {
		return nil, notFound(err, "answer")
	}
	return &answer, nil
}

// ListByQuestion 采纳答案优先，其次票数，最后按时间正序
func (r *AnswerRepository) ListByQuestion(questionID string, page, limit int) ([]model.Answer, int64, error) {
	query := r.DB.Model(&model.Answer{}).
		Where("answers.question_id = ? AND answers.is_deleted = ?", questionID, false)
	return r.page(query, "answers.is_accepted DESC, answers.vote_count DESC, answers.created_at ASC", page, limit)
}

func (r *AnswerRepository) ListByAuthor(authorID uint, page, limit int) ([]model.Answer, int64, error) {
	query := r.DB.Model(&model.Answer{}).
		Where("answers.author_id = ? AND answers.is_deleted = ?", authorID, false)
	return r.page(query, "answers.created_at DESC", page, limit)
}

func (r *AnswerRepository) page(query *gorm.DB, order string, page, limit int) ([]model.Answer, int64, error) {
	var answers []model.Answer
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Select("answers.*, " + commentCountSQL).
		Order(order).
		Offset(offset(page, limit)).Limit(limit).
		Preload("Author").
		Find(&answers).Error
	if err != nil {
		return nil, 0, err
	}
	return answers, total, nil
}

func (r *AnswerRepository) Update(answer *model.Answer) error {
	res := r.DB.Model(answer).
		Where("is_deleted = ?", false).
		Select("content", "moderation_status", "is_moderated").
		Updates(answer)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundf("answer not found")
	}
	return nil
}

// SoftDelete 软删除答案；若为采纳答案，同一事务内清理问题的采纳状态
func (r *AnswerRepository) SoftDelete(id string) (*model.Answer, error) {
	var deleted *model.Answer
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		question, answer, err := lockAnswerWithQuestion(tx, id)
		if err != nil {
			return err
		}
		if !answer.Live() {
			return model.NotFoundf("answer not found")
		}

		answer.IsDeleted = true
		if err := tx.Model(answer).Update("is_deleted", true).Error; err != nil {
			return err
		}

		if model.DetachAcceptance(question, answer.ID) {
			answer.IsAccepted = false
			answer.AcceptedAt = nil
			if err := saveAcceptance(tx, answer); err != nil {
				return err
			}
			if err := saveQuestionAcceptance(tx, question); err != nil {
				return err
			}
		}
		deleted = answer
		return nil
	})
	return deleted, err
}

// Accept 在问题行锁内执行采纳，问题与新旧两条答案在同一事务内写入
func (r *AnswerRepository) Accept(questionID, answerID string, actorID uint, now time.Time) (*model.Question, *model.Answer, error) {
	var question *model.Question
	var answer *model.Answer
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if question, err = lockQuestion(tx, questionID); err != nil {
			return err
		}
		if answer, err = lockAnswer(tx, answerID); err != nil {
			return err
		}

		var prev *model.Answer
		if question.AcceptedAnswerID != nil && *question.AcceptedAnswerID != answer.ID {
			if prev, err = lockAnswer(tx, *question.AcceptedAnswerID); err != nil {
				// 旧的采纳答案已被物理删除时直接覆盖，其他错误（如锁等待超时）必须回滚
				if !errors.Is(err, model.ErrNotFound) {
					return err
				}
				prev = nil
			}
		}

		if err := model.AcceptAnswer(question, answer, prev, actorID, now); err != nil {
			return err
		}
		if err := saveAcceptance(tx, prev, answer); err != nil {
			return err
		}
		return saveQuestionAcceptance(tx, question)
	})
	if err != nil {
		return nil, nil, err
	}
	return question, answer, nil
}

// Unaccept 取消采纳；若该答案不是当前采纳答案，问题保持不变
func (r *AnswerRepository) Unaccept(questionID, answerID string, actorID uint) (*model.Question, *model.Answer, error) {
	var question *model.Question
	var answer *model.Answer
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if question, err = lockQuestion(tx, questionID); err != nil {
			return err
		}
		if answer, err = lockAnswer(tx, answerID); err != nil {
			return err
		}

		if err := model.UnacceptAnswer(question, answer, actorID); err != nil {
			return err
		}
		if err := saveAcceptance(tx, answer); err != nil {
			return err
		}
		return saveQuestionAcceptance(tx, question)
	})
	if err != nil {
		return nil, nil, err
	}
	return question, answer, nil
}
