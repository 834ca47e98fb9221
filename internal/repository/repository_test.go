package repository

import (
	"path/filepath"
	"testing"

	"stackit_backend/internal/model"
	"stackit_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// store 基于 SQLite 文件库的仓储集合，SQLite 忽略行锁子句，事务语义不变
type store struct {
	db         *gorm.DB
	users      *UserRepository
	questions  *QuestionRepository
	answers    *AnswerRepository
	votes      *VoteRepository
	moderation *ModerationRepository
}

func newStore(t *testing.T) *store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "stackit.db")), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	return &store{
		db:         db,
		users:      NewUserRepository(db),
		questions:  NewQuestionRepository(db),
		answers:    NewAnswerRepository(db),
		votes:      NewVoteRepository(db),
		moderation: NewModerationRepository(db),
	}
}

func (s *store) user(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", Password: "hashed", Role: role}
	require.NoError(t, s.users.Create(u))
	return u
}

func (s *store) question(t *testing.T, authorID uint) *model.Question {
	t.Helper()
	q := &model.Question{
		ContentRecord: model.ContentRecord{AuthorID: authorID, Content: "Rows keep getting overwritten under load."},
		Title:         "How do row locks interact with transactions?",
	}
	require.NoError(t, s.questions.Create(q))
	return q
}

func (s *store) answer(t *testing.T, questionID string, authorID uint) *model.Answer {
	t.Helper()
	a := &model.Answer{
		ContentRecord: model.ContentRecord{AuthorID: authorID, Content: "Take the lock on the parent row first."},
		QuestionID:    questionID,
	}
	require.NoError(t, s.answers.Create(a))
	return a
}

func (s *store) reloadQuestion(t *testing.T, id string) *model.Question {
	t.Helper()
	var q model.Question
	require.NoError(t, s.db.First(&q, "id = ?", id).Error)
	return &q
}

func (s *store) reloadAnswer(t *testing.T, id string) *model.Answer {
	t.Helper()
	var a model.Answer
	require.NoError(t, s.db.First(&a, "id = ?", id).Error)
	return &a
}

func (s *store) reloadUser(t *testing.T, id uint) *model.User {
	t.Helper()
	var u model.User
	require.NoError(t, s.db.First(&u, id).Error)
	return &u
}
