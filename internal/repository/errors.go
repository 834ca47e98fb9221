package repository

import (
	"errors"
	"stackit_backend/internal/model"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate 行锁，同一记录上的读改写串行执行
var forUpdate = clause.Locking{Strength: "UPDATE"}

// forShare 共享锁，保证父记录在插入子记录期间不会被删除
var forShare = clause.Locking{Strength: "SHARE"}

// notFound 将 gorm.ErrRecordNotFound 转换为领域错误
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NotFoundf("%s not found", what)
	}
	return err
}

// isUniqueViolation MySQL 1062 / Postgres 23505
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

func contentTable(ct model.ContentType) (string, bool) {
	switch ct {
	case model.ContentQuestion:
		return "questions", true
	case model.ContentAnswer:
		return "answers", true
	case model.ContentComment:
		return "comments", true
	}
	return "", false
}

// recountVotes 从投票账本重新计算目标的 vote_count
func recountVotes(tx *gorm.DB, target model.VoteTarget, targetID string) (int, error) {
	var votes []model.Vote
	if err := tx.Where("target_type = ? AND target_id = ?", target, targetID).Find(&votes).Error; err != nil {
		return 0, err
	}
	count := model.NewVoteLedger(votes).Count()
	table, _ := contentTable(model.ContentType(target))
	err := tx.Table(table).Where("id = ?", targetID).UpdateColumn("vote_count", count).Error
	return count, err
}
