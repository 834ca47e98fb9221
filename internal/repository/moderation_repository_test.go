package repository

import (
	"testing"
	"time"

	"stackit_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModerationDeleteOfAcceptedAnswer(t *testing.T) {
	s := newStore(t)
	alice := s.user(t, "alice", model.Member)
	bob := s.user(t, "bob", model.Member)
	carol := s.user(t, "carol", model.Moderator)

	q := s.question(t, alice.ID)
	a := s.answer(t, q.ID, bob.ID)
	_, _, err := s.answers.Accept(q.ID, a.ID, alice.ID, time.Now())
	require.NoError(t, err)

	report, err := s.moderation.Apply(model.ContentAnswer, a.ID, model.ActionDelete,
		ModerationAudit{ModeratorID: carol.ID, Reason: "spam"})
	require.NoError(t, err)
	assert.Equal(t, model.ActionDelete, report.Action)
	assert.Equal(t, bob.ID, report.TargetUser)

	stored := s.reloadQuestion(t, q.ID)
	assert.Nil(t, stored.AcceptedAnswerID)
	assert.False(t, stored.IsAnswered)
	deleted := s.reloadAnswer(t, a.ID)
	assert.True(t, deleted.IsDeleted)
	assert.False(t, deleted.IsAccepted)

	// 已删除的答案不可再被采纳、审核或投票
	_, _, err = s.answers.Accept(q.ID, a.ID, alice.ID, time.Now())
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.moderation.Apply(model.ContentAnswer, a.ID, model.ActionApprove, ModerationAudit{ModeratorID: carol.ID})
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.votes.Cast(model.VoteOnAnswer, a.ID, carol.ID, model.VoteUp)
	assert.ErrorIs(t, err, model.ErrNotFound)

	var reports int64
	require.NoError(t, s.db.Model(&model.Report{}).Count(&reports).Error)
	assert.Equal(t, int64(1), reports)
}

func TestModerationBanUserAction(t *testing.T) {
	s := newStore(t)
	alice := s.user(t, "alice", model.Member)
	carol := s.user(t, "carol", model.Moderator)
	q := s.question(t, alice.ID)

	report, err := s.moderation.Apply(model.ContentQuestion, q.ID, model.ActionBanUser,
		ModerationAudit{ModeratorID: carol.ID})
	require.NoError(t, err)
	assert.Equal(t, model.ActionBanUser, report.Action)

	assert.True(t, s.reloadQuestion(t, q.ID).IsDeleted)
	assert.True(t, s.reloadUser(t, alice.ID).IsBanned)
}

func TestModerationBanUserActionGuards(t *testing.T) {
	s := newStore(t)
	root := s.user(t, "root", model.Admin)
	ops := s.user(t, "ops", model.Admin)
	carol := s.user(t, "carol", model.Moderator)

	own := s.question(t, carol.ID)
	admins := s.question(t, ops.ID)

	_, err := s.moderation.Apply(model.ContentQuestion, own.ID, model.ActionBanUser,
		ModerationAudit{ModeratorID: carol.ID})
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = s.moderation.Apply(model.ContentQuestion, admins.ID, model.ActionBanUser,
		ModerationAudit{ModeratorID: root.ID})
	assert.ErrorIs(t, err, model.ErrForbidden)

	// 事务回滚：内容未删除、无人被封禁、无审计记录
	assert.False(t, s.reloadQuestion(t, own.ID).IsDeleted)
	assert.False(t, s.reloadQuestion(t, admins.ID).IsDeleted)
	assert.False(t, s.reloadUser(t, carol.ID).IsBanned)
	assert.False(t, s.reloadUser(t, ops.ID).IsBanned)

	var reports int64
	require.NoError(t, s.db.Model(&model.Report{}).Count(&reports).Error)
	assert.Zero(t, reports)
}
