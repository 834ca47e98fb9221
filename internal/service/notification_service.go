package service

import (
	"context"
	"fmt"
	"regexp"
	"stackit_backend/internal/model"
	"stackit_backend/pkg/logger"
	"stackit_backend/pkg/monitoring"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// StoreSink 将通知写入收件箱
type StoreSink struct {
	Store NotificationStore
}

func (s *StoreSink) Name() string {
	return "store"
}

func (s *StoreSink) Send(ctx context.Context, n *model.Notification) error {
	return s.Store.Create(n)
}

// NotificationService 通知扇出与收件箱
// 投递失败只记录日志，不影响触发通知的业务操作
type NotificationService struct {
	Store       NotificationStore
	Users       UserStore
	Sinks       []NotificationSink
	Concurrency int
}

func NewNotificationService(store NotificationStore, users UserStore, concurrency int, sinks ...NotificationSink) *NotificationService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &NotificationService{
		Store:       store,
		Users:       users,
		Sinks:       sinks,
		Concurrency: concurrency,
	}
}

// deliver 依次投递到每个 sink；给自己的通知直接丢弃
func (s *NotificationService) deliver(ctx context.Context, n *model.Notification) bool {
	if n.RecipientID == 0 || n.RecipientID == n.SenderID {
		return false
	}

	delivered := false
	for _, sink := range s.Sinks {
		if err := sink.Send(ctx, n); err != nil {
			logger.Log.Warn("Notification delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("type", string(n.Type)),
				zap.Uint("recipientId", n.RecipientID),
				zap.Error(err))
			monitoring.NotificationCounter.WithLabelValues(sink.Name(), string(n.Type), "failed").Inc()
			continue
		}
		monitoring.NotificationCounter.WithLabelValues(sink.Name(), string(n.Type), "delivered").Inc()
		delivered = true
	}
	return delivered
}

func strPtr(s string) *string {
	return &s
}

// NotifyNewAnswer 通知问题作者有新回答
func (s *NotificationService) NotifyNewAnswer(ctx context.Context, q *model.Question, a *model.Answer, sender Actor) {
	s.deliver(ctx, &model.Notification{
		RecipientID:     q.AuthorID,
		SenderID:        sender.ID,
		Type:            model.NotifyAnswer,
		Title:           "New answer to your question",
		Message:         fmt.Sprintf("%s answered your question: %s", sender.Username, truncate(q.Title, 100)),
		RelatedQuestion: strPtr(q.ID),
		RelatedAnswer:   strPtr(a.ID),
	})
}

// NotifyNewComment 通知回答作者有新评论
func (s *NotificationService) NotifyNewComment(ctx context.Context, a *model.Answer, c *model.Comment, sender Actor) {
	s.deliver(ctx, &model.Notification{
		RecipientID:     a.AuthorID,
		SenderID:        sender.ID,
		Type:            model.NotifyComment,
		Title:           "New comment on your answer",
		Message:         fmt.Sprintf("%s commented on your answer", sender.Username),
		RelatedQuestion: strPtr(a.QuestionID),
		RelatedAnswer:   strPtr(a.ID),
		RelatedComment:  strPtr(c.ID),
	})
}

// NotifyAccepted 通知回答作者答案被采纳
func (s *NotificationService) NotifyAccepted(ctx context.Context, q *model.Question, a *model.Answer, sender Actor) {
	s.deliver(ctx, &model.Notification{
		RecipientID:     a.AuthorID,
		SenderID:        sender.ID,
		Type:            model.NotifyAccept,
		Title:           "Your answer was accepted",
		Message:         fmt.Sprintf("%s accepted your answer to: %s", sender.Username, truncate(q.Title, 100)),
		RelatedQuestion: strPtr(q.ID),
		RelatedAnswer:   strPtr(a.ID),
	})
}

// ExtractMentions 提取去重后的 @handle，保持出现顺序
func ExtractMentions(text string) []string {
	seen := make(map[string]bool)
	var handles []string
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			handles = append(handles, m[1])
		}
	}
	return handles
}

// NotifyMentions 解析评论中的 @handle，无法解析的句柄直接忽略，返回投递数量
func (s *NotificationService) NotifyMentions(ctx context.Context, a *model.Answer, c *model.Comment, sender Actor) int {
	handles := ExtractMentions(c.Content)
	if len(handles) == 0 {
		return 0
	}

	users, err := s.Users.FindByUsernames(handles)
	if err != nil {
		logger.Log.Warn("Failed to resolve mentions", zap.Strings("handles", handles), zap.Error(err))
		return 0
	}

	sent := 0
	for _, u := range users {
		ok := s.deliver(ctx, &model.Notification{
			RecipientID:     u.ID,
			SenderID:        sender.ID,
			Type:            model.NotifyMention,
			Title:           "You were mentioned",
			Message:         fmt.Sprintf("%s mentioned you in a comment", sender.Username),
			RelatedQuestion: strPtr(a.QuestionID),
			RelatedAnswer:   strPtr(a.ID),
			RelatedComment:  strPtr(c.ID),
		})
		if ok {
			sent++
		}
	}
	return sent
}

// Broadcast 管理员广播，每个未封禁用户一条记录，返回收件人数量
func (s *NotificationService) Broadcast(ctx context.Context, sender Actor, title, message string) (int, error) {
	if !sender.CanAdminister() {
		return 0, model.Forbiddenf("only admins can broadcast")
	}

	ids, err := s.Users.ActiveUserIDs()
	if err != nil {
		return 0, err
	}

	var delivered int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for _, id := range ids {
		recipient := id
		if recipient == sender.ID {
			continue
		}
		g.Go(func() error {
			ok := s.deliver(gctx, &model.Notification{
				RecipientID: recipient,
				SenderID:    sender.ID,
				Type:        model.NotifyBroadcast,
				Title:       title,
				Message:     message,
			})
			if ok {
				atomic.AddInt64(&delivered, 1)
			}
			return nil
		})
	}
	_ = g.Wait()

	logger.Log.Info("Admin broadcast sent",
		zap.Uint("senderId", sender.ID),
		zap.Int("recipients", len(ids)),
		zap.Int64("delivered", delivered))
	return int(delivered), nil
}

// InboxPage 收件箱分页
type InboxPage struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int64                `json:"total"`
	UnreadCount   int64                `json:"unreadCount"`
	Page          int                  `json:"page"`
	Limit         int                  `json:"limit"`
}

func (s *NotificationService) Inbox(recipientID uint, page, limit int, unreadOnly bool) (*InboxPage, error) {
	list, total, err := s.Store.List(recipientID, page, limit, unreadOnly)
	if err != nil {
		return nil, err
	}
	unread, err := s.Store.UnreadCount(recipientID)
	if err != nil {
		return nil, err
	}
	return &InboxPage{
		Notifications: list,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *NotificationService) UnreadCount(recipientID uint) (int64, error) {
	return s.Store.UnreadCount(recipientID)
}

func (s *NotificationService) MarkRead(id, recipientID uint) error {
	return s.Store.MarkRead(id, recipientID)
}

func (s *NotificationService) MarkAllRead(recipientID uint) (int64, error) {
	return s.Store.MarkAllRead(recipientID)
}

func (s *NotificationService) Delete(id, recipientID uint) error {
	return s.Store.Delete(id, recipientID)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
