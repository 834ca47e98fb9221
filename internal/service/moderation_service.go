package service

import (
	"stackit_backend/internal/model"
	"stackit_backend/internal/repository"
	"stackit_backend/pkg/logger"
	"stackit_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const dashboardLimit = 20

type ModerateRequest struct {
	ContentType string `json:"contentType" binding:"required,oneof=question answer comment"`
	ContentID   string `json:"contentId" binding:"required"`
	Action      string `json:"action" binding:"required,oneof=approve delete ban_user"`
	Reason      string `json:"reason" binding:"max=500"`
	Notes       string `json:"notes" binding:"max=1000"`
}

type BanRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// Dashboard 审核面板
type Dashboard struct {
	Flagged       *repository.FlaggedContent  `json:"flagged"`
	RecentReports []model.Report              `json:"recentReports"`
	BannedUsers   []model.User                `json:"bannedUsers"`
	Stats         *repository.ModerationStats `json:"stats"`
}

type ModerationService struct {
	Store ModerationStore
	Users UserStore
}

func NewModerationService(store ModerationStore, users UserStore) *ModerationService {
	return &ModerationService{Store: store, Users: users}
}

// Moderate 对内容执行 approve / delete / ban_user，同时写入审计记录
// ban_user 会封禁作者，只有管理员可以执行
func (s *ModerationService) Moderate(actor Actor, req ModerateRequest) (*model.Report, error) {
	if !actor.CanModerate() {
		return nil, model.Forbiddenf("moderator role required")
	}
	ct, ok := model.ParseContentType(req.ContentType)
	if !ok {
		return nil, model.Invalidf("invalid content type %q", req.ContentType)
	}
	action := model.ModerationAction(req.Action)
	switch action {
	case model.ActionApprove, model.ActionDelete:
	case model.ActionBanUser:
		if !actor.CanAdminister() {
			return nil, model.Forbiddenf("only admins can ban users")
		}
	default:
		return nil, model.Invalidf("invalid moderation action %q", req.Action)
	}

	reason := req.Reason
	if reason == "" {
		reason = "admin_moderation"
	}
	report, err := s.Store.Apply(ct, req.ContentID, action, repository.ModerationAudit{
		ModeratorID: actor.ID,
		Reason:      reason,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}

	monitoring.ModerationActions.WithLabelValues(string(ct), string(action)).Inc()
	logger.Log.Info("Content moderated",
		zap.Uint("moderatorId", actor.ID),
		zap.String("contentType", string(ct)),
		zap.String("contentId", req.ContentID),
		zap.String("action", string(action)))
	return report, nil
}

func (s *ModerationService) setBan(actor Actor, userID uint, banned bool, reason string) (*model.Report, error) {
	if !actor.CanAdminister() {
		return nil, model.Forbiddenf("admin role required")
	}
	if userID == actor.ID {
		return nil, model.Invalidf("cannot change your own ban status")
	}
	target, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if banned {
		if err := model.CheckBanTarget(actor.ID, target); err != nil {
			return nil, err
		}
	}

	report, err := s.Store.SetBan(userID, banned, repository.ModerationAudit{
		ModeratorID: actor.ID,
		Reason:      reason,
	})
	if err != nil {
		return nil, err
	}
	monitoring.ModerationActions.WithLabelValues(string(model.ContentUser), string(report.Action)).Inc()
	return report, nil
}

func (s *ModerationService) Ban(actor Actor, userID uint, reason string) (*model.Report, error) {
	if reason == "" {
		reason = "admin_ban"
	}
	return s.setBan(actor, userID, true, reason)
}

func (s *ModerationService) Unban(actor Actor, userID uint, reason string) (*model.Report, error) {
	if reason == "" {
		reason = "admin_unban"
	}
	return s.setBan(actor, userID, false, reason)
}

func (s *ModerationService) Dashboard(actor Actor) (*Dashboard, error) {
	if !actor.CanModerate() {
		return nil, model.Forbiddenf("moderator role required")
	}
	flagged, err := s.Store.Flagged(dashboardLimit)
	if err != nil {
		return nil, err
	}
	reports, _, err := s.Store.Reports(1, dashboardLimit, "")
	if err != nil {
		return nil, err
	}
	banned, err := s.Store.BannedUsers(dashboardLimit)
	if err != nil {
		return nil, err
	}
	stats, err := s.Store.Stats()
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Flagged:       flagged,
		RecentReports: reports,
		BannedUsers:   banned,
		Stats:         stats,
	}, nil
}

func (s *ModerationService) Reports(actor Actor, page, limit int, contentType string) ([]model.Report, int64, error) {
	if !actor.CanModerate() {
		return nil, 0, model.Forbiddenf("moderator role required")
	}
	return s.Store.Reports(page, limit, contentType)
}

func (s *ModerationService) Stats(actor Actor) (*repository.ModerationStats, error) {
	if !actor.CanModerate() {
		return nil, model.Forbiddenf("moderator role required")
	}
	return s.Store.Stats()
}
