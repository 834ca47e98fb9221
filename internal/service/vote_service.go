package service

import (
	"stackit_backend/internal/model"
	"stackit_backend/pkg/monitoring"
)

type VoteRequest struct {
	VoteType string `json:"voteType" binding:"required"`
}

type VoteResult struct {
	VoteCount int                 `json:"voteCount"`
	UserVote  model.VoteDirection `json:"userVote"`
}

type VoteService struct {
	Votes VoteStore
}

func NewVoteService(votes VoteStore) *VoteService {
	return &VoteService{Votes: votes}
}

// Cast 投票或改票，同方向重复投票结果不变
func (s *VoteService) Cast(actor Actor, target model.VoteTarget, targetID, voteType string) (*VoteResult, error) {
	if err := requirePost(actor); err != nil {
		return nil, err
	}
	dir, err := model.ParseVoteDirection(voteType)
	if err != nil {
		return nil, err
	}

	count, err := s.Votes.Cast(target, targetID, actor.ID, dir)
	if err != nil {
		return nil, err
	}

	monitoring.VoteCounter.WithLabelValues(string(target), string(dir)).Inc()
	return &VoteResult{VoteCount: count, UserVote: dir}, nil
}
