package service

import (
	"context"
	"sort"
	"stackit_backend/internal/model"
	"stackit_backend/internal/repository"
	"strings"
	"unicode/utf8"
)

const maxQuestionTags = 5

type QuestionRequest struct {
	Title   string   `json:"title" binding:"required,min=10,max=200"`
	Content string   `json:"content" binding:"required,min=20"`
	Tags    []string `json:"tags" binding:"required,min=1,max=5,dive,tagname"`
}

type UpdateQuestionRequest struct {
	Title   *string  `json:"title" binding:"omitempty,min=10,max=200"`
	Content *string  `json:"content" binding:"omitempty,min=20"`
	Tags    []string `json:"tags" binding:"omitempty,min=1,max=5,dive,tagname"`
}

// QuestionDetail 问题详情及第一页回答
type QuestionDetail struct {
	Question *model.Question `json:"question"`
	Answers  []model.Answer  `json:"answers"`
	Total    int64           `json:"totalAnswers"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

type QuestionService struct {
	Questions  QuestionStore
	Answers    AnswerStore
	Tags       TagStore
	Classifier Classifier
	TagCache   TagCache
}

func NewQuestionService(questions QuestionStore, answers AnswerStore, tags TagStore, classifier Classifier, cache TagCache) *QuestionService {
	return &QuestionService{
		Questions:  questions,
		Answers:    answers,
		Tags:       tags,
		Classifier: classifier,
		TagCache:   cache,
	}
}

// tagsChanged 问题的标签集合变化后热门标签计数随之改变
func (s *QuestionService) tagsChanged(ctx context.Context) {
	if s.TagCache != nil {
		s.TagCache.Invalidate(ctx)
	}
}

// normalizeTagNames 去空白、转小写、去重
func normalizeTagNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// resolveTags 标签必须存在且处于启用状态
func (s *QuestionService) resolveTags(names []string) ([]model.Tag, error) {
	names = normalizeTagNames(names)
	if len(names) == 0 {
		return nil, model.Invalidf("at least one tag is required")
	}
	if len(names) > maxQuestionTags {
		return nil, model.Invalidf("at most %d tags are allowed", maxQuestionTags)
	}

	tags, err := s.Tags.FindActiveByNames(names)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(names) {
		found := make(map[string]bool, len(tags))
		for _, t := range tags {
			found[t.Name] = true
		}
		var missing []string
		for _, n := range names {
			if !found[n] {
				missing = append(missing, n)
			}
		}
		sort.Strings(missing)
		return nil, model.Invalidf("unknown tags: %s", strings.Join(missing, ", "))
	}
	return tags, nil
}

func (s *QuestionService) Create(ctx context.Context, actor Actor, req QuestionRequest) (*model.Question, error) {
	if err := requirePost(actor); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if n := utf8.RuneCountInString(title); n < 10 || n > 200 {
		return nil, model.Invalidf("title must be between 10 and 200 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Content)) < 20 {
		return nil, model.Invalidf("content must be at least 20 characters")
	}

	tags, err := s.resolveTags(req.Tags)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		ContentRecord: model.ContentRecord{
			AuthorID:         actor.ID,
			Content:          req.Content,
			ModerationStatus: s.Classifier.Classify(ctx, title+"\n\n"+req.Content),
		},
		Title: title,
		Tags:  tags,
	}
	if err := s.Questions.Create(question); err != nil {
		return nil, err
	}
	s.tagsChanged(ctx)
	return question, nil
}

// Get 每次读取浏览数 +1，已删除的问题视为不存在
func (s *QuestionService) Get(id string, page, limit int) (*QuestionDetail, error) {
	question, err := s.Questions.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !question.Live() {
		return nil, model.NotFoundf("question not found")
	}

	if err := s.Questions.IncrementViews(id); err != nil {
		return nil, err
	}
	question.ViewCount++

	answers, total, err := s.Answers.ListByQuestion(id, page, limit)
	if err != nil {
		return nil, err
	}
	return &QuestionDetail{
		Question: question,
		Answers:  answers,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (s *QuestionService) List(q repository.QuestionQuery) ([]model.Question, int64, error) {
	if q.Sort == "" {
		q.Sort = repository.SortNewest
	}
	if !repository.ValidQuestionSort(q.Sort) {
		return nil, 0, model.Invalidf("invalid sort %q", q.Sort)
	}
	q.Tags = normalizeTagNames(q.Tags)
	return s.Questions.List(q)
}

// Search 关键字必填
func (s *QuestionService) Search(keyword string, page, limit int) ([]model.Question, int64, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, 0, model.Invalidf("search query is required")
	}
	return s.Questions.List(repository.QuestionQuery{
		Page:   page,
		Limit:  limit,
		Search: keyword,
		Sort:   repository.SortNewest,
	})
}

func (s *QuestionService) ListByAuthor(authorID uint, page, limit int) ([]model.Question, int64, error) {
	return s.Questions.List(repository.QuestionQuery{
		Page:     page,
		Limit:    limit,
		AuthorID: authorID,
		Sort:     repository.SortNewest,
	})
}

// Update 标题或正文变化时重新审核
func (s *QuestionService) Update(ctx context.Context, actor Actor, id string, req UpdateQuestionRequest) (*model.Question, error) {
	question, err := s.Questions.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !question.Live() {
		return nil, model.NotFoundf("question not found")
	}
	if !actor.CanEditOwn(question.AuthorID) {
		return nil, model.Forbiddenf("not allowed to edit this question")
	}

	changed := false
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if n := utf8.RuneCountInString(title); n < 10 || n > 200 {
			return nil, model.Invalidf("title must be between 10 and 200 characters")
		}
		if title != question.Title {
			question.Title = title
			changed = true
		}
	}
	if req.Content != nil && *req.Content != question.Content {
		if utf8.RuneCountInString(strings.TrimSpace(*req.Content)) < 20 {
			return nil, model.Invalidf("content must be at least 20 characters")
		}
		question.Content = *req.Content
		changed = true
	}

	replaceTags := req.Tags != nil
	if replaceTags {
		tags, err := s.resolveTags(req.Tags)
		if err != nil {
			return nil, err
		}
		question.Tags = tags
	}

	if changed {
		question.ModerationStatus = s.Classifier.Classify(ctx, question.Title+"\n\n"+question.Content)
		question.IsModerated = false
	}

	if err := s.Questions.Update(question, replaceTags); err != nil {
		return nil, err
	}
	if replaceTags {
		s.tagsChanged(ctx)
	}
	return question, nil
}

func (s *QuestionService) Delete(ctx context.Context, actor Actor, id string) error {
	question, err := s.Questions.FindByID(id)
	if err != nil {
		return err
	}
	if !question.Live() {
		return model.NotFoundf("question not found")
	}
	if !actor.CanEditOwn(question.AuthorID) {
		return model.Forbiddenf("not allowed to delete this question")
	}
	if err := s.Questions.SoftDelete(id); err != nil {
		return err
	}
	s.tagsChanged(ctx)
	return nil
}
