package model

type ModerationStatus string

const (
	ModerationGreen  ModerationStatus = "green"
	ModerationYellow ModerationStatus = "yellow"
	ModerationRed    ModerationStatus = "red"
)

// ParseModerationStatus 只接受三种标签，其余一律视为无法识别
func ParseModerationStatus(s string) (ModerationStatus, bool) {
	switch ModerationStatus(s) {
	case ModerationGreen, ModerationYellow, ModerationRed:
		return ModerationStatus(s), true
	}
	return "", false
}

// Flagged 黄/红标签需要人工复核
func (s ModerationStatus) Flagged() bool {
	return s == ModerationYellow || s == ModerationRed
}

type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionDelete  ModerationAction = "delete"
	ActionBanUser ModerationAction = "ban_user"
	ActionUnban   ModerationAction = "unban_user"
)

type ContentType string

const (
	ContentQuestion ContentType = "question"
	ContentAnswer   ContentType = "answer"
	ContentComment  ContentType = "comment"
	ContentUser     ContentType = "user"
)

func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case ContentQuestion, ContentAnswer, ContentComment:
		return ContentType(s), true
	}
	return "", false
}

// ApplyModeration 在内存中对内容执行审核动作，返回作者是否需要被封禁
// 已删除的内容是终态，任何动作都返回 ErrNotFound
func ApplyModeration(c *ContentRecord, action ModerationAction) (banAuthor bool, err error) {
	if !c.Live() {
		return false, NotFoundf("content not found")
	}
	switch action {
	case ActionApprove:
		c.ModerationStatus = ModerationGreen
		c.IsModerated = true
	case ActionDelete:
		c.IsDeleted = true
	case ActionBanUser:
		c.IsDeleted = true
		banAuthor = true
	default:
		return false, Invalidf("invalid moderation action %q", action)
	}
	return banAuthor, nil
}

// CheckBanTarget 不能封禁自己，也不能封禁管理员
func CheckBanTarget(actorID uint, target *User) error {
	if target.ID == actorID {
		return Forbiddenf("cannot ban yourself")
	}
	if target.Role == Admin {
		return Forbiddenf("admins cannot be banned")
	}
	return nil
}
