package repository

import (
	"testing"

	"stackit_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastKeepsOneVotePerUser(t *testing.T) {
	s := newStore(t)
	alice := s.user(t, "alice", model.Member)
	bob := s.user(t, "bob", model.Member)
	carol := s.user(t, "carol", model.Member)
	q := s.question(t, alice.ID)

	for _, dir := range []model.VoteDirection{model.VoteUp, model.VoteDown, model.VoteUp} {
		_, err := s.votes.Cast(model.VoteOnQuestion, q.ID, bob.ID, dir)
		require.NoError(t, err)
	}
	count, err := s.votes.Cast(model.VoteOnQuestion, q.ID, carol.ID, model.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var rows int64
	require.NoError(t, s.db.Model(&model.Vote{}).Where("target_id = ?", q.ID).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)

	var bobs []model.Vote
	require.NoError(t, s.db.Where("target_id = ? AND user_id = ?", q.ID, bob.ID).Find(&bobs).Error)
	require.Len(t, bobs, 1)
	assert.Equal(t, model.VoteUp, bobs[0].Direction)

	dir, ok, err := s.votes.VoteOf(model.VoteOnQuestion, q.ID, carol.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.VoteDown, dir)

	assert.Equal(t, 0, s.reloadQuestion(t, q.ID).VoteCount)
}

func TestCastOnAnswerUpdatesCount(t *testing.T) {
	s := newStore(t)
	alice := s.user(t, "alice", model.Member)
	bob := s.user(t, "bob", model.Member)
	q := s.question(t, alice.ID)
	a := s.answer(t, q.ID, bob.ID)

	count, err := s.votes.Cast(model.VoteOnAnswer, a.ID, alice.ID, model.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, s.reloadAnswer(t, a.ID).VoteCount)
}

func TestCastRejectsMissingTargets(t *testing.T) {
	s := newStore(t)
	alice := s.user(t, "alice", model.Member)
	q := s.question(t, alice.ID)
	require.NoError(t, s.questions.SoftDelete(q.ID))

	_, err := s.votes.Cast(model.VoteOnQuestion, q.ID, alice.ID, model.VoteUp)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.votes.Cast(model.VoteOnQuestion, "missing", alice.ID, model.VoteUp)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.votes.Cast(model.VoteTarget("comment"), q.ID, alice.ID, model.VoteUp)
	assert.ErrorIs(t, err, model.ErrValidation)
}
