package service

import "stackit_backend/internal/model"

// Actor 发起操作的用户，由认证中间件按请求重新加载
type Actor struct {
	ID       uint
	Username string
	Role     model.UserRole
	IsBanned bool
}

func ActorFromUser(u *model.User) Actor {
	if u == nil {
		return Actor{Role: model.Guest}
	}
	return Actor{ID: u.ID, Username: u.Username, Role: u.Role, IsBanned: u.IsBanned}
}

// CanPost 发布问题、回答、评论与投票
func (a Actor) CanPost() bool {
	return a.ID != 0 && !a.IsBanned && a.Role != model.Guest
}

func (a Actor) CanModerate() bool {
	return !a.IsBanned && (a.Role == model.Moderator || a.Role == model.Admin)
}

// CanEditOwn 作者本人或审核员可修改/删除内容
func (a Actor) CanEditOwn(authorID uint) bool {
	if a.CanModerate() {
		return true
	}
	return a.CanPost() && a.ID == authorID
}

// CanAdminister 角色变更、广播、用户封禁
func (a Actor) CanAdminister() bool {
	return !a.IsBanned && a.Role == model.Admin
}

func requirePost(a Actor) error {
	if a.IsBanned {
		return model.Forbiddenf("account is banned")
	}
	if !a.CanPost() {
		return model.Forbiddenf("guests cannot post")
	}
	return nil
}
