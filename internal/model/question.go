package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ContentRecord
	Title            string     `gorm:"size:200;not null" json:"title"`
	Author           User       `gorm:"foreignKey:AuthorID" json:"-"`
	Tags             []Tag      `gorm:"many2many:question_tags;" json:"tags"`
	VoteCount        int        `gorm:"default:0;index" json:"voteCount"`
	ViewCount        int        `gorm:"default:0" json:"viewCount"`
	IsAnswered       bool       `gorm:"default:false" json:"isAnswered"`
	AcceptedAnswerID *string    `gorm:"type:varchar(36)" json:"acceptedAnswerId"`
	AnsweredAt       *time.Time `json:"answeredAt"`

	// 派生字段，由查询时的子查询计算，不落库
	AnswerCount   int         `gorm:"->;-:migration" json:"answerCount"`
	AuthorSummary UserSummary `gorm:"-" json:"author"`
}

func (q *Question) AfterFind(tx *gorm.DB) error {
	q.AuthorSummary = q.Author.Summary()
	return nil
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) TagNames() []string {
	names := make([]string, len(q.Tags))
	for i, t := range q.Tags {
		names[i] = t.Name
	}
	return names
}

type Answer struct {
	ContentRecord
	QuestionID string     `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Author     User       `gorm:"foreignKey:AuthorID" json:"-"`
	VoteCount  int        `gorm:"default:0;index" json:"voteCount"`
	IsAccepted bool       `gorm:"default:false" json:"isAccepted"`
	AcceptedAt *time.Time `json:"acceptedAt"`

	CommentCount  int         `gorm:"->;-:migration" json:"commentCount"`
	AuthorSummary UserSummary `gorm:"-" json:"author"`
}

func (a *Answer) AfterFind(tx *gorm.DB) error {
	a.AuthorSummary = a.Author.Summary()
	return nil
}

func (Answer) TableName() string {
	return "answers"
}

type Comment struct {
	ContentRecord
	AnswerID      string      `gorm:"index;type:varchar(36);not null" json:"answerId"`
	Author        User        `gorm:"foreignKey:AuthorID" json:"-"`
	AuthorSummary UserSummary `gorm:"-" json:"author"`
}

func (c *Comment) AfterFind(tx *gorm.DB) error {
	c.AuthorSummary = c.Author.Summary()
	return nil
}

func (Comment) TableName() string {
	return "comments"
}
