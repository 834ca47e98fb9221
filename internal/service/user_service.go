package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"stackit_backend/internal/model"
	"stackit_backend/internal/util"
	"stackit_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,handle"`
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
}

type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=guest user moderator admin"`
}

type UserService struct {
	Users   UserStore
	Storage *StorageService
}

func NewUserService(users UserStore, storage *StorageService) *UserService {
	return &UserService{
		Users:   users,
		Storage: storage,
	}
}

func (s *UserService) Get(id uint) (*model.User, error) {
	return s.Users.FindByID(id)
}

func (s *UserService) canManage(actor Actor, userID uint) bool {
	return actor.ID == userID || actor.CanAdminister()
}

// Update 本人或管理员可修改资料，用户名/邮箱冲突返回校验错误
func (s *UserService) Update(actor Actor, id uint, req UpdateUserRequest) (*model.User, error) {
	if !s.canManage(actor, id) {
		return nil, model.Forbiddenf("not allowed to edit this user")
	}
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		if !util.HandlePattern.MatchString(*req.Username) {
			return nil, model.Invalidf("username may only contain letters, digits and underscores (3-30)")
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.Users.UpdateProfile(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 物理删除用户及其全部内容
func (s *UserService) Delete(actor Actor, id uint) error {
	if !s.canManage(actor, id) {
		return model.Forbiddenf("not allowed to delete this user")
	}
	if err := s.Users.DeleteCascade(id); err != nil {
		return err
	}
	logger.Log.Info("User deleted", zap.Uint("userId", id), zap.Uint("actorId", actor.ID))
	return nil
}

func (s *UserService) List(actor Actor, page, limit int, search string, banned *bool) ([]model.User, int64, error) {
	if !actor.CanModerate() {
		return nil, 0, model.Forbiddenf("moderator role required")
	}
	return s.Users.List(page, limit, search, banned)
}

// SetRole 管理员不能修改自己的角色
func (s *UserService) SetRole(actor Actor, id uint, role model.UserRole) error {
	if !actor.CanAdminister() {
		return model.Forbiddenf("admin role required")
	}
	if !role.Valid() {
		return model.Invalidf("invalid role %q", role)
	}
	if id == actor.ID {
		return model.Invalidf("cannot change your own role")
	}
	return s.Users.SetRole(id, role)
}

// UploadAvatar 校验图片类型后写入存储，并更新头像地址
func (s *UserService) UploadAvatar(ctx context.Context, actor Actor, file io.ReadSeeker, size int64) (*model.User, error) {
	if size > util.MaxAvatarSize {
		return nil, model.Invalidf("avatar must be smaller than %d bytes", util.MaxAvatarSize)
	}
	mimeType, err := util.ValidateMimeType(file, util.AllowedImageTypes)
	if err != nil {
		return nil, model.Invalidf("%v", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	user, err := s.Users.FindByID(actor.ID)
	if err != nil {
		return nil, err
	}

	filename := path.Join(util.AvatarDirectory, fmt.Sprintf("%d_%s%s", actor.ID, model.GenerateUUID(), util.ImageExtension(mimeType)))
	url, err := s.Storage.Upload(ctx, filename, file, size, mimeType)
	if err != nil {
		return nil, err
	}

	user.Avatar = url
	if err := s.Users.UpdateProfile(user); err != nil {
		return nil, err
	}
	return user, nil
}
