package repository

import (
	"stackit_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	now := time.Now()
	if user.LastSeen.IsZero() {
		user.LastSeen = now
	}
	if err := r.DB.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Invalidf("username or email already exists")
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// FindByUsernames 用于解析 @mention，不存在的用户名直接忽略
func (r *UserRepository) FindByUsernames(names []string) ([]model.User, error) {
	var users []model.User
	if len(names) == 0 {
		return users, nil
	}
	err := r.DB.Where("username IN ?", names).Find(&users).Error
	return users, err
}

// UpdateProfile 只更新资料字段，角色与封禁状态走管理接口
func (r *UserRepository) UpdateProfile(user *model.User) error {
	err := r.DB.Model(user).Select("username", "email", "bio", "avatar").Updates(user).Error
	if isUniqueViolation(err) {
		return model.Invalidf("username or email already exists")
	}
	return err
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_seen", time.Now()).
		Error
}

func (r *UserRepository) SetRole(userID uint, role model.UserRole) error {
	res := r.DB.Model(&model.User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundf("user not found")
	}
	return nil
}

func (r *UserRepository) List(page, limit int, search string, banned *bool) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.DB.Model(&model.User{})
	if search != "" {
		query = query.Where("username LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if banned != nil {
		query = query.Where("is_banned = ?", *banned)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset(page, limit)).Limit(limit).
		Find(&users).Error
	return users, total, err
}

// ActiveUserIDs 所有未被封禁的用户，广播通知的收件人
func (r *UserRepository) ActiveUserIDs() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.User{}).Where("is_banned = ?", false).Pluck("id", &ids).Error
	return ids, err
}

// DeleteCascade 物理删除用户及其全部内容
// 被删除答案若是其他问题的采纳答案，同时清理采纳状态；受影响的投票数从账本重算
func (r *UserRepository) DeleteCascade(userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(forUpdate).First(&user, userID).Error; err != nil {
			return notFound(err, "user")
		}

		var questionIDs []string
		if err := tx.Model(&model.Question{}).Where("author_id = ?", userID).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}

		var answerIDs []string
		if err := tx.Model(&model.Answer{}).
			Where("author_id = ? OR question_id IN ?", userID, questionIDs).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}

		if len(answerIDs) > 0 {
			if err := tx.Model(&model.Question{}).
				Where("accepted_answer_id IN ?", answerIDs).
				Updates(map[string]interface{}{
					"accepted_answer_id": nil,
					"is_answered":        false,
					"answered_at":        nil,
				}).Error; err != nil {
				return err
			}
		}

		// 用户投出的票，删除后需要重算目标计数
		var cast []model.Vote
		if err := tx.Where("user_id = ?", userID).Find(&cast).Error; err != nil {
			return err
		}

		deletes := []struct {
			query string
			args  []interface{}
			model interface{}
		}{
			{"user_id = ?", []interface{}{userID}, &model.Vote{}},
			{"target_type = ? AND target_id IN ?", []interface{}{model.VoteOnQuestion, questionIDs}, &model.Vote{}},
			{"target_type = ? AND target_id IN ?", []interface{}{model.VoteOnAnswer, answerIDs}, &model.Vote{}},
			{"author_id = ? OR answer_id IN ?", []interface{}{userID, answerIDs}, &model.Comment{}},
			{"id IN ?", []interface{}{answerIDs}, &model.Answer{}},
			{"id IN ?", []interface{}{questionIDs}, &model.Question{}},
			{"recipient_id = ? OR sender_id = ?", []interface{}{userID, userID}, &model.Notification{}},
		}
		if err := tx.Exec("DELETE FROM question_tags WHERE question_id IN ?", questionIDs).Error; err != nil {
			return err
		}
		for _, d := range deletes {
			if err := tx.Where(d.query, d.args...).Delete(d.model).Error; err != nil {
				return err
			}
		}

		removed := make(map[string]bool, len(questionIDs)+len(answerIDs))
		for _, id := range questionIDs {
			removed[id] = true
		}
		for _, id := range answerIDs {
			removed[id] = true
		}
		for _, v := range cast {
			if removed[v.TargetID] {
				continue
			}
			if _, err := recountVotes(tx, v.TargetType, v.TargetID); err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&user).Error
	})
}
