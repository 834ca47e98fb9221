package repository

import (
	"stackit_backend/internal/model"

	"gorm.io/gorm"
)

const answerCountSQL = `(SELECT COUNT(*) FROM answers a
	WHERE a.question_id = questions.id AND a.is_deleted = false) AS answer_count`

// 问题列表排序方式
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortMostUpvoted  = "most-upvoted"
	SortMostAnswered = "most-answered"
	SortMostViewed   = "most-viewed"
)

var questionOrders = map[string]string{
	SortNewest:       "questions.created_at DESC",
	SortOldest:       "questions.created_at ASC",
	SortMostUpvoted:  "questions.vote_count DESC, questions.created_at DESC",
	SortMostAnswered: "answer_count DESC, questions.created_at DESC",
	SortMostViewed:   "questions.view_count DESC, questions.created_at DESC",
}

// ValidQuestionSort 是否为支持的排序方式
func ValidQuestionSort(sort string) bool {
	_, ok := questionOrders[sort]
	return ok
}

// QuestionQuery 问题列表查询条件
type QuestionQuery struct {
	Page       int
	Limit      int
	Search     string
	Tags       []string
	Unanswered bool
	Sort       string
	AuthorID   uint
}

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	// 标签已存在，只写关联表
	return r.DB.Omit("Tags.*").Create(question).Error
}

// FindByID 包含已删除的问题，由调用方判断可见性
func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	err := r.DB.Model(&model.Question{}).
		Select("questions.*, "+answerCountSQL).
		Preload("Author").
		Preload("Tags").
		Where("questions.id = ?", id).
		First(&question).Error
	if err != nil {
		return nil, notFound(err, "question")
	}
	return &question, nil
}

// IncrementViews 原子自增，不更新 updated_at
func (r *QuestionRepository) IncrementViews(id string) error {
	return r.DB.Model(&model.Question{}).
		Where("id = ? AND is_deleted = ?", id, false).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).
		Error
}

func (r *QuestionRepository) List(q QuestionQuery) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	query := r.DB.Model(&model.Question{}).Where("questions.is_deleted = ?", false)

	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where("questions.title LIKE ? OR questions.content LIKE ?", like, like)
	}

	if len(q.Tags) > 0 {
		query = query.Where(`EXISTS (SELECT 1 FROM question_tags qt JOIN tags t ON t.id = qt.tag_id
			WHERE qt.question_id = questions.id AND t.name IN ?)`, q.Tags)
	}

	if q.Unanswered {
		query = query.Where(`NOT EXISTS (SELECT 1 FROM answers a
			WHERE a.question_id = questions.id AND a.is_deleted = false)`)
	}

	if q.AuthorID > 0 {
		query = query.Where("questions.author_id = ?", q.AuthorID)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := questionOrders[q.Sort]
	if !ok {
		order = questionOrders[SortNewest]
	}

	err := query.Select("questions.*, " + answerCountSQL).
		Order(order).
		Offset(offset(q.Page, q.Limit)).Limit(q.Limit).
		Preload("Author").
		Preload("Tags").
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// Update 更新标题、正文与审核标签；replaceTags 时同时替换标签关联
func (r *QuestionRepository) Update(question *model.Question, replaceTags bool) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(question).
			Where("is_deleted = ?", false).
			Select("title", "content", "moderation_status", "is_moderated").
			Updates(question)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.NotFoundf("question not found")
		}
		if !replaceTags {
			return nil
		}
		return tx.Model(question).Association("Tags").Replace(question.Tags)
	})
}

// SoftDelete 软删除，已删除的问题返回 ErrNotFound
func (r *QuestionRepository) SoftDelete(id string) error {
	res := r.DB.Model(&model.Question{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundf("question not found")
	}
	return nil
}
