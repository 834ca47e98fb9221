package service

import (
	"context"
	"stackit_backend/internal/model"
	"stackit_backend/internal/repository"
	"time"
)

// 服务依赖的存储接口，由 repository 包中的 gorm 实现满足，测试中使用内存实现

type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsernames(names []string) ([]model.User, error)
	UpdateProfile(user *model.User) error
	UpdateLastSeen(userID uint) error
	SetRole(userID uint, role model.UserRole) error
	List(page, limit int, search string, banned *bool) ([]model.User, int64, error)
	ActiveUserIDs() ([]uint, error)
	DeleteCascade(userID uint) error
}

type TagStore interface {
	List(search, category string, includeInactive bool) ([]model.Tag, error)
	Popular(limit int) ([]model.Tag, error)
	FindByID(id uint) (*model.Tag, error)
	FindActiveByNames(names []string) ([]model.Tag, error)
	Create(tag *model.Tag) error
	Update(tag *model.Tag) error
}

type QuestionStore interface {
	Create(question *model.Question) error
	FindByID(id string) (*model.Question, error)
	IncrementViews(id string) error
	List(q repository.QuestionQuery) ([]model.Question, int64, error)
	Update(question *model.Question, replaceTags bool) error
	SoftDelete(id string) error
}

type AnswerStore interface {
	Create(answer *model.Answer) error
	FindByID(id string) (*model.Answer, error)
	ListByQuestion(questionID string, page, limit int) ([]model.Answer, int64, error)
	ListByAuthor(authorID uint, page, limit int) ([]model.Answer, int64, error)
	Update(answer *model.Answer) error
	SoftDelete(id string) (*model.Answer, error)
	Accept(questionID, answerID string, actorID uint, now time.Time) (*model.Question, *model.Answer, error)
	Unaccept(questionID, answerID string, actorID uint) (*model.Question, *model.Answer, error)
}

type CommentStore interface {
	Create(comment *model.Comment) error
	FindByID(id string) (*model.Comment, error)
	ListByAnswer(answerID string, page, limit int) ([]model.Comment, int64, error)
	Update(comment *model.Comment) error
	SoftDelete(id string) error
}

type VoteStore interface {
	Cast(target model.VoteTarget, targetID string, userID uint, dir model.VoteDirection) (int, error)
	VoteOf(target model.VoteTarget, targetID string, userID uint) (model.VoteDirection, bool, error)
}

type NotificationStore interface {
	Create(n *model.Notification) error
	List(recipientID uint, page, limit int, unreadOnly bool) ([]model.Notification, int64, error)
	UnreadCount(recipientID uint) (int64, error)
	MarkRead(id, recipientID uint) error
	MarkAllRead(recipientID uint) (int64, error)
	Delete(id, recipientID uint) error
}

type ModerationStore interface {
	Apply(ct model.ContentType, contentID string, action model.ModerationAction, audit repository.ModerationAudit) (*model.Report, error)
	SetBan(userID uint, banned bool, audit repository.ModerationAudit) (*model.Report, error)
	Flagged(limit int) (*repository.FlaggedContent, error)
	Reports(page, limit int, contentType string) ([]model.Report, int64, error)
	BannedUsers(limit int) ([]model.User, error)
	Stats() (*repository.ModerationStats, error)
}

// Classifier 内容审核分类器，任何失败都必须返回 green
type Classifier interface {
	Classify(ctx context.Context, text string) model.ModerationStatus
}

// TagCache 热门标签缓存，标签使用次数变化后调用 Invalidate
type TagCache interface {
	Invalidate(ctx context.Context)
}

// NotificationSink 通知投递能力，持久化与实时推送各自实现
type NotificationSink interface {
	Name() string
	Send(ctx context.Context, n *model.Notification) error
}
