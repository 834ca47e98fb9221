package service

import (
	"context"
	"testing"

	"stackit_backend/internal/model"
	"stackit_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() QuestionRequest {
	return QuestionRequest{
		Title:   "How to mock gorm in tests?",
		Content: "I want to unit test a repository without a database.",
		Tags:    []string{"Go", " sql ", "go"},
	}
}

func TestCreateQuestion(t *testing.T) {
	f := newTestForum()

	q, err := f.questions.Create(context.Background(), actorOf(alice), validQuestion())
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, alice.ID, q.AuthorID)
	assert.ElementsMatch(t, []string{"go", "sql"}, q.TagNames())
	assert.Equal(t, model.ModerationGreen, q.ModerationStatus)

	require.Len(t, f.classifier.calls, 1)
	assert.Contains(t, f.classifier.calls[0], "How to mock gorm in tests?")
	assert.Contains(t, f.classifier.calls[0], "without a database")
}

func TestCreateQuestionRejectsUnknownOrInactiveTags(t *testing.T) {
	f := newTestForum()

	req := validQuestion()
	req.Tags = []string{"go", "rust", "cobol"}
	_, err := f.questions.Create(context.Background(), actorOf(alice), req)
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "cobol, rust")

	req.Tags = []string{"a", "b", "c", "d", "e", "f"}
	_, err = f.questions.Create(context.Background(), actorOf(alice), req)
	assert.ErrorIs(t, err, model.ErrValidation)

	req.Tags = nil
	_, err = f.questions.Create(context.Background(), actorOf(alice), req)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCreateQuestionRequiresPostingRights(t *testing.T) {
	f := newTestForum()

	_, err := f.questions.Create(context.Background(), Actor{Role: model.Guest}, validQuestion())
	assert.ErrorIs(t, err, model.ErrForbidden)

	banned := actorOf(alice)
	banned.IsBanned = true
	_, err = f.questions.Create(context.Background(), banned, validQuestion())
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestGetQuestionCountsViews(t *testing.T) {
	f := newTestForum()
	f.content.addQuestion("q1", alice.ID)
	f.content.addAnswer("a1", "q1", bob.ID)

	detail, err := f.questions.Get("q1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Question.ViewCount)
	assert.Equal(t, int64(1), detail.Total)

	_, err = f.questions.Get("q1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, f.content.questions["q1"].ViewCount)

	require.NoError(t, f.questions.Delete(context.Background(), actorOf(alice), "q1"))
	_, err = f.questions.Get("q1", 1, 10)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateQuestionReclassifiesOnChange(t *testing.T) {
	f := newTestForum()
	created, err := f.questions.Create(context.Background(), actorOf(alice), validQuestion())
	require.NoError(t, err)

	title := "How to mock gorm in unit tests?"
	_, err = f.questions.Update(context.Background(), actorOf(bob), created.ID, UpdateQuestionRequest{Title: &title})
	assert.ErrorIs(t, err, model.ErrForbidden)

	f.classifier.status = model.ModerationYellow
	updated, err := f.questions.Update(context.Background(), actorOf(alice), created.ID, UpdateQuestionRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, model.ModerationYellow, updated.ModerationStatus)
	assert.False(t, updated.IsModerated)
	assert.Equal(t, title, f.content.questions[created.ID].Title)

	calls := len(f.classifier.calls)
	_, err = f.questions.Update(context.Background(), actorOf(alice), created.ID, UpdateQuestionRequest{Tags: []string{"sql"}})
	require.NoError(t, err)
	assert.Len(t, f.classifier.calls, calls)
	assert.Equal(t, []string{"sql"}, f.content.questions[created.ID].TagNames())
}

func TestQuestionTagChangesInvalidatePopularTags(t *testing.T) {
	f := newTestForum()
	ctx := context.Background()

	created, err := f.questions.Create(ctx, actorOf(alice), validQuestion())
	require.NoError(t, err)
	assert.Equal(t, 1, f.tagCache.invalidations)

	title := "How to mock gorm in unit tests?"
	_, err = f.questions.Update(ctx, actorOf(alice), created.ID, UpdateQuestionRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, 1, f.tagCache.invalidations, "title edits leave tag usage unchanged")

	_, err = f.questions.Update(ctx, actorOf(alice), created.ID, UpdateQuestionRequest{Tags: []string{"sql"}})
	require.NoError(t, err)
	assert.Equal(t, 2, f.tagCache.invalidations)

	_, err = f.questions.Create(ctx, actorOf(alice), QuestionRequest{Title: "short", Content: "too short"})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, 2, f.tagCache.invalidations)

	require.NoError(t, f.questions.Delete(ctx, actorOf(alice), created.ID))
	assert.Equal(t, 3, f.tagCache.invalidations)
}

func TestListQuestionsRejectsUnknownSort(t *testing.T) {
	f := newTestForum()
	_, _, err := f.questions.List(repository.QuestionQuery{Page: 1, Limit: 10, Sort: "random"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, _, err = f.questions.List(repository.QuestionQuery{Page: 1, Limit: 10})
	assert.NoError(t, err)

	_, _, err = f.questions.Search("   ", 1, 10)
	assert.ErrorIs(t, err, model.ErrValidation)
}
