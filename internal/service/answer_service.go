package service

import (
	"context"
	"stackit_backend/internal/model"
	"strings"
	"time"
	"unicode/utf8"
)

type AnswerRequest struct {
	Content string `json:"content" binding:"required,min=20"`
}

type AnswerService struct {
	Answers    AnswerStore
	Questions  QuestionStore
	Classifier Classifier
	Notifier   *NotificationService
	Now        func() time.Time
}

func NewAnswerService(answers AnswerStore, questions QuestionStore, classifier Classifier, notifier *NotificationService) *AnswerService {
	return &AnswerService{
		Answers:    answers,
		Questions:  questions,
		Classifier: classifier,
		Notifier:   notifier,
		Now:        time.Now,
	}
}

func validAnswerContent(content string) error {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < 20 {
		return model.Invalidf("content must be at least 20 characters")
	}
	return nil
}

func (s *AnswerService) liveQuestion(id string) (*model.Question, error) {
	question, err := s.Questions.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !question.Live() {
		return nil, model.NotFoundf("question not found")
	}
	return question, nil
}

// Create 回答问题并通知问题作者
func (s *AnswerService) Create(ctx context.Context, actor Actor, questionID string, req AnswerRequest) (*model.Answer, error) {
	if err := requirePost(actor); err != nil {
		return nil, err
	}
	if err := validAnswerContent(req.Content); err != nil {
		return nil, err
	}
	question, err := s.liveQuestion(questionID)
	if err != nil {
		return nil, err
	}

	answer := &model.Answer{
		ContentRecord: model.ContentRecord{
			AuthorID:         actor.ID,
			Content:          req.Content,
			ModerationStatus: s.Classifier.Classify(ctx, req.Content),
		},
		QuestionID: question.ID,
	}
	if err := s.Answers.Create(answer); err != nil {
		return nil, err
	}

	s.Notifier.NotifyNewAnswer(ctx, question, answer, actor)
	return answer, nil
}

func (s *AnswerService) ListByQuestion(questionID string, page, limit int) ([]model.Answer, int64, error) {
	if _, err := s.liveQuestion(questionID); err != nil {
		return nil, 0, err
	}
	return s.Answers.ListByQuestion(questionID, page, limit)
}

func (s *AnswerService) ListByAuthor(authorID uint, page, limit int) ([]model.Answer, int64, error) {
	return s.Answers.ListByAuthor(authorID, page, limit)
}

func (s *AnswerService) liveAnswer(questionID, answerID string) (*model.Answer, error) {
	answer, err := s.Answers.FindByID(answerID)
	if err != nil {
		return nil, err
	}
	if !answer.Live() || (questionID != "" && answer.QuestionID != questionID) {
		return nil, model.NotFoundf("answer not found")
	}
	return answer, nil
}

// Update 修改正文并重新审核
func (s *AnswerService) Update(ctx context.Context, actor Actor, questionID, answerID string, req AnswerRequest) (*model.Answer, error) {
	answer, err := s.liveAnswer(questionID, answerID)
	if err != nil {
		return nil, err
	}
	if !actor.CanEditOwn(answer.AuthorID) {
		return nil, model.Forbiddenf("not allowed to edit this answer")
	}
	if err := validAnswerContent(req.Content); err != nil {
		return nil, err
	}

	if req.Content != answer.Content {
		answer.Content = req.Content
		answer.ModerationStatus = s.Classifier.Classify(ctx, req.Content)
		answer.IsModerated = false
	}
	if err := s.Answers.Update(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// Delete 软删除；采纳答案被删除时问题的采纳状态一并清理
func (s *AnswerService) Delete(actor Actor, questionID, answerID string) error {
	answer, err := s.liveAnswer(questionID, answerID)
	if err != nil {
		return err
	}
	if !actor.CanEditOwn(answer.AuthorID) {
		return model.Forbiddenf("not allowed to delete this answer")
	}
	_, err = s.Answers.SoftDelete(answerID)
	return err
}

// Accept 仅问题作者可采纳；原采纳答案在同一事务内取消
func (s *AnswerService) Accept(ctx context.Context, actor Actor, questionID, answerID string) (*model.Question, *model.Answer, error) {
	question, answer, err := s.Answers.Accept(questionID, answerID, actor.ID, s.Now())
	if err != nil {
		return nil, nil, err
	}
	s.Notifier.NotifyAccepted(ctx, question, answer, actor)
	return question, answer, nil
}

func (s *AnswerService) Unaccept(actor Actor, questionID, answerID string) (*model.Question, *model.Answer, error) {
	return s.Answers.Unaccept(questionID, answerID, actor.ID)
}
