package service

import (
	"context"
	"stackit_backend/internal/model"
	"strings"
	"unicode/utf8"
)

type CommentRequest struct {
	Content string `json:"content" binding:"required,min=5,max=500"`
}

type CommentService struct {
	Comments   CommentStore
	Answers    AnswerStore
	Questions  QuestionStore
	Classifier Classifier
	Notifier   *NotificationService
}

func NewCommentService(comments CommentStore, answers AnswerStore, questions QuestionStore, classifier Classifier, notifier *NotificationService) *CommentService {
	return &CommentService{
		Comments:   comments,
		Answers:    answers,
		Questions:  questions,
		Classifier: classifier,
		Notifier:   notifier,
	}
}

func validCommentContent(content string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(content)); n < 5 || n > 500 {
		return model.Invalidf("comment must be between 5 and 500 characters")
	}
	return nil
}

// liveAnswer 答案及其所属问题都必须未删除
func (s *CommentService) liveAnswer(id string) (*model.Answer, error) {
	answer, err := s.Answers.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !answer.Live() {
		return nil, model.NotFoundf("answer not found")
	}
	question, err := s.Questions.FindByID(answer.QuestionID)
	if err != nil {
		return nil, err
	}
	if !question.Live() {
		return nil, model.NotFoundf("question not found")
	}
	return answer, nil
}

// Create 发表评论，通知回答作者与被 @ 的用户
func (s *CommentService) Create(ctx context.Context, actor Actor, answerID string, req CommentRequest) (*model.Comment, error) {
	if err := requirePost(actor); err != nil {
		return nil, err
	}
	if err := validCommentContent(req.Content); err != nil {
		return nil, err
	}
	answer, err := s.liveAnswer(answerID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ContentRecord: model.ContentRecord{
			AuthorID:         actor.ID,
			Content:          req.Content,
			ModerationStatus: s.Classifier.Classify(ctx, req.Content),
		},
		AnswerID: answer.ID,
	}
	if err := s.Comments.Create(comment); err != nil {
		return nil, err
	}

	s.Notifier.NotifyNewComment(ctx, answer, comment, actor)
	s.Notifier.NotifyMentions(ctx, answer, comment, actor)
	return comment, nil
}

func (s *CommentService) ListByAnswer(answerID string, page, limit int) ([]model.Comment, int64, error) {
	if _, err := s.liveAnswer(answerID); err != nil {
		return nil, 0, err
	}
	return s.Comments.ListByAnswer(answerID, page, limit)
}

func (s *CommentService) liveComment(id string) (*model.Comment, error) {
	comment, err := s.Comments.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !comment.Live() {
		return nil, model.NotFoundf("comment not found")
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, actor Actor, id string, req CommentRequest) (*model.Comment, error) {
	comment, err := s.liveComment(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanEditOwn(comment.AuthorID) {
		return nil, model.Forbiddenf("not allowed to edit this comment")
	}
	if err := validCommentContent(req.Content); err != nil {
		return nil, err
	}

	if req.Content != comment.Content {
		comment.Content = req.Content
		comment.ModerationStatus = s.Classifier.Classify(ctx, req.Content)
		comment.IsModerated = false
	}
	if err := s.Comments.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(actor Actor, id string) error {
	comment, err := s.liveComment(id)
	if err != nil {
		return err
	}
	if !actor.CanEditOwn(comment.AuthorID) {
		return model.Forbiddenf("not allowed to delete this comment")
	}
	return s.Comments.SoftDelete(id)
}
