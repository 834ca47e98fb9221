package model

import (
	"strings"
	"time"
)

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ParseVoteDirection 兼容旧前端的 upvote/downvote 写法
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "upvote":
		return VoteUp, nil
	case "down", "downvote":
		return VoteDown, nil
	}
	return "", ErrInvalidVoteType
}

// VoteTarget 可投票的内容类型
type VoteTarget string

const (
	VoteOnQuestion VoteTarget = "question"
	VoteOnAnswer   VoteTarget = "answer"
)

func (t VoteTarget) Valid() bool {
	return t == VoteOnQuestion || t == VoteOnAnswer
}

// Vote 投票账本中的一行，(user, target_type, target_id) 唯一
type Vote struct {
	ID         uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	UserID     uint          `gorm:"uniqueIndex:idx_vote_user_target;not null" json:"userId"`
	TargetType VoteTarget    `gorm:"uniqueIndex:idx_vote_user_target;size:20;not null" json:"targetType"`
	TargetID   string        `gorm:"uniqueIndex:idx_vote_user_target;index;size:36;not null" json:"targetId"`
	Direction  VoteDirection `gorm:"size:10;not null" json:"direction"`
}

func (Vote) TableName() string {
	return "votes"
}

// VoteLedger 一条记录的赞成/反对者集合
type VoteLedger struct {
	Upvoters   []uint `json:"upvoters"`
	Downvoters []uint `json:"downvoters"`
}

func NewVoteLedger(votes []Vote) VoteLedger {
	var l VoteLedger
	for _, v := range votes {
		l.Cast(v.UserID, v.Direction)
	}
	return l
}

// Cast 先移除该用户已有的票再写入新票；同方向重复投票等价于替换
func (l *VoteLedger) Cast(userID uint, dir VoteDirection) {
	l.Upvoters = without(l.Upvoters, userID)
	l.Downvoters = without(l.Downvoters, userID)
	switch dir {
	case VoteUp:
		l.Upvoters = append(l.Upvoters, userID)
	case VoteDown:
		l.Downvoters = append(l.Downvoters, userID)
	}
}

func (l VoteLedger) Count() int {
	return len(l.Upvoters) - len(l.Downvoters)
}

func (l VoteLedger) VoteOf(userID uint) (VoteDirection, bool) {
	for _, id := range l.Upvoters {
		if id == userID {
			return VoteUp, true
		}
	}
	for _, id := range l.Downvoters {
		if id == userID {
			return VoteDown, true
		}
	}
	return "", false
}

func without(ids []uint, userID uint) []uint {
	out := ids[:0]
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}
