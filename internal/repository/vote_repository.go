package repository

import (
	"errors"
	"stackit_backend/internal/model"

	"gorm.io/gorm"
)

type VoteRepository struct {
	DB *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{DB: db}
}

// Cast 替换用户在目标上的投票，并在同一事务内从账本重算 vote_count
// 目标行加锁，同一记录上的并发投票串行执行，不会丢失更新
func (r *VoteRepository) Cast(target model.VoteTarget, targetID string, userID uint, dir model.VoteDirection) (int, error) {
	table, ok := contentTable(model.ContentType(target))
	if !ok || !target.Valid() {
		return 0, model.Invalidf("invalid vote target %q", target)
	}

	var count int
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var record model.ContentRecord
		err := tx.Table(table).
			Clauses(forUpdate).
			Select("id", "is_deleted").
			Where("id = ?", targetID).
			Take(&record).Error
		if err != nil {
			return notFound(err, string(target))
		}
		if !record.Live() {
			return model.NotFoundf("%s not found", target)
		}

		var votes []model.Vote
		if err := tx.Where("target_type = ? AND target_id = ?", target, targetID).Find(&votes).Error; err != nil {
			return err
		}
		ledger := model.NewVoteLedger(votes)
		ledger.Cast(userID, dir)

		if err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target, targetID).
			Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.Vote{
			UserID:     userID,
			TargetType: target,
			TargetID:   targetID,
			Direction:  dir,
		}).Error; err != nil {
			return err
		}

		count = ledger.Count()
		return tx.Table(table).Where("id = ?", targetID).UpdateColumn("vote_count", count).Error
	})
	return count, err
}

// VoteOf 用户在目标上的当前投票
func (r *VoteRepository) VoteOf(target model.VoteTarget, targetID string, userID uint) (model.VoteDirection, bool, error) {
	var vote model.Vote
	err := r.DB.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target, targetID).
		Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return vote.Direction, true, nil
}
