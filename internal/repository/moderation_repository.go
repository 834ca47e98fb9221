package repository

import (
	"stackit_backend/internal/model"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// FlaggedContent 待人工复核的黄/红标签内容
type FlaggedContent struct {
	Questions []model.Question `json:"questions"`
	Answers   []model.Answer   `json:"answers"`
	Comments  []model.Comment  `json:"comments"`
}

// ModerationStats 管理后台统计
type ModerationStats struct {
	Users       int64 `json:"users"`
	BannedUsers int64 `json:"bannedUsers"`
	Questions   int64 `json:"questions"`
	Answers     int64 `json:"answers"`
	Comments    int64 `json:"comments"`
	Flagged     int64 `json:"flagged"`
	Reports     int64 `json:"reports"`
}

// ModerationAudit 审核操作的审计信息
type ModerationAudit struct {
	ModeratorID uint
	Reason      string
	Notes       string
}

type ModerationRepository struct {
	DB *gorm.DB
}

func NewModerationRepository(db *gorm.DB) *ModerationRepository {
	return &ModerationRepository{DB: db}
}

func newContentRow(ct model.ContentType) (interface{}, *model.ContentRecord) {
	switch ct {
	case model.ContentQuestion:
		q := &model.Question{}
		return q, &q.ContentRecord
	case model.ContentAnswer:
		a := &model.Answer{}
		return a, &a.ContentRecord
	default:
		c := &model.Comment{}
		return c, &c.ContentRecord
	}
}

// Apply 对内容执行审核动作：内容、作者封禁与审计记录在同一事务内写入
// 已删除或不存在的内容返回 ErrNotFound
func (r *ModerationRepository) Apply(ct model.ContentType, contentID string, action model.ModerationAction, audit ModerationAudit) (*model.Report, error) {
	table, ok := contentTable(ct)
	if !ok {
		return nil, model.Invalidf("invalid content type %q", ct)
	}

	var report *model.Report
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		row, record := newContentRow(ct)
		var question *model.Question
		if ct == model.ContentAnswer {
			q, a, err := lockAnswerWithQuestion(tx, contentID)
			if err != nil {
				return err
			}
			question = q
			row, record = a, &a.ContentRecord
		} else if err := tx.Clauses(forUpdate).First(row, "id = ?", contentID).Error; err != nil {
			return notFound(err, string(ct))
		}

		banAuthor, err := model.ApplyModeration(record, action)
		if err != nil {
			return err
		}
		if banAuthor {
			var author model.User
			if err := tx.Clauses(forUpdate).First(&author, record.AuthorID).Error; err != nil {
				return notFound(err, "user")
			}
			if err := model.CheckBanTarget(audit.ModeratorID, &author); err != nil {
				return err
			}
		}

		if err := tx.Table(table).Where("id = ?", contentID).Updates(map[string]interface{}{
			"moderation_status": record.ModerationStatus,
			"is_moderated":      record.IsModerated,
			"is_deleted":        record.IsDeleted,
			"updated_at":        time.Now(),
		}).Error; err != nil {
			return err
		}

		// 删除采纳答案时同步清理问题的采纳状态
		if answer, ok := row.(*model.Answer); ok && record.IsDeleted && answer.IsAccepted {
			if model.DetachAcceptance(question, answer.ID) {
				if err := saveQuestionAcceptance(tx, question); err != nil {
					return err
				}
			}
			answer.IsAccepted = false
			answer.AcceptedAt = nil
			if err := saveAcceptance(tx, answer); err != nil {
				return err
			}
		}

		if banAuthor {
			if err := tx.Model(&model.User{}).Where("id = ?", record.AuthorID).Update("is_banned", true).Error; err != nil {
				return err
			}
		}

		report = &model.Report{
			ModeratorID: audit.ModeratorID,
			ContentType: ct,
			ContentID:   contentID,
			TargetUser:  record.AuthorID,
			Action:      action,
			Reason:      audit.Reason,
			Notes:       audit.Notes,
		}
		return tx.Create(report).Error
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// SetBan 封禁/解封用户并写入审计记录
func (r *ModerationRepository) SetBan(userID uint, banned bool, audit ModerationAudit) (*model.Report, error) {
	var report *model.Report
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(forUpdate).First(&user, userID).Error; err != nil {
			return notFound(err, "user")
		}
		if err := tx.Model(&user).Update("is_banned", banned).Error; err != nil {
			return err
		}

		action := model.ActionBanUser
		if !banned {
			action = model.ActionUnban
		}
		report = &model.Report{
			ModeratorID: audit.ModeratorID,
			ContentType: model.ContentUser,
			ContentID:   strconv.FormatUint(uint64(userID), 10),
			TargetUser:  userID,
			Action:      action,
			Reason:      audit.Reason,
			Notes:       audit.Notes,
		}
		return tx.Create(report).Error
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func flaggedScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ? AND is_moderated = ? AND moderation_status IN ?",
		false, false, []model.ModerationStatus{model.ModerationYellow, model.ModerationRed})
}

// Flagged 每类内容最多返回 limit 条，按时间倒序
func (r *ModerationRepository) Flagged(limit int) (*FlaggedContent, error) {
	var out FlaggedContent
	if err := r.DB.Scopes(flaggedScope).Preload("Author").Order("created_at DESC").Limit(limit).Find(&out.Questions).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Scopes(flaggedScope).Preload("Author").Order("created_at DESC").Limit(limit).Find(&out.Answers).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Scopes(flaggedScope).Preload("Author").Order("created_at DESC").Limit(limit).Find(&out.Comments).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ModerationRepository) Reports(page, limit int, contentType string) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	query := r.DB.Model(&model.Report{})
	if contentType != "" {
		query = query.Where("content_type = ?", contentType)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset(page, limit)).Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *ModerationRepository) BannedUsers(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("is_banned = ?", true).Order("updated_at DESC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *ModerationRepository) Stats() (*ModerationStats, error) {
	var s ModerationStats
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&s.Users, r.DB.Model(&model.User{})},
		{&s.BannedUsers, r.DB.Model(&model.User{}).Where("is_banned = ?", true)},
		{&s.Questions, r.DB.Model(&model.Question{}).Where("is_deleted = ?", false)},
		{&s.Answers, r.DB.Model(&model.Answer{}).Where("is_deleted = ?", false)},
		{&s.Comments, r.DB.Model(&model.Comment{}).Where("is_deleted = ?", false)},
		{&s.Reports, r.DB.Model(&model.Report{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	for _, m := range []interface{}{&model.Question{}, &model.Answer{}, &model.Comment{}} {
		var n int64
		if err := r.DB.Model(m).Scopes(flaggedScope).Count(&n).Error; err != nil {
			return nil, err
		}
		s.Flagged += n
	}
	return &s, nil
}
