package service

import (
	"errors"
	"stackit_backend/internal/config"
	"stackit_backend/internal/model"
	"stackit_backend/internal/util"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = model.Invalidf("invalid credentials")

type RegisterRequest struct {
	Username string `json:"username" binding:"required,handle"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService struct {
	Users UserStore
	Cfg   *config.Config
}

func NewAuthService(users UserStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Users: users,
		Cfg:   cfg,
	}
}

func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	if !util.HandlePattern.MatchString(req.Username) {
		return nil, model.Invalidf("username may only contain letters, digits and underscores (3-30)")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.Users.FindByEmail(email)
	if err == nil {
		return nil, model.Invalidf("email already registered")
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.Member,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 被封禁的用户不能登录
func (s *AuthService) Login(req LoginRequest) (*LoginResponse, error) {
	user, err := s.Users.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	if user.IsBanned {
		return nil, model.Forbiddenf("account is banned")
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user}, nil
}
