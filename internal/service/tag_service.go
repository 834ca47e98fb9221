package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"stackit_backend/internal/model"
	"stackit_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	popularTagsPrefix = "stackit:tags:popular:"
	popularTagsTTL    = 5 * time.Minute
)

type TagRequest struct {
	Name        string `json:"name" binding:"required,tagname"`
	Description string `json:"description" binding:"required,max=200"`
	Category    string `json:"category" binding:"required"`
}

type UpdateTagRequest struct {
	Name        *string `json:"name" binding:"omitempty,tagname"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	Category    *string `json:"category"`
	IsActive    *bool   `json:"isActive"`
}

type TagService struct {
	Tags  TagStore
	Redis *redis.Client
}

func NewTagService(tags TagStore, rdb *redis.Client) *TagService {
	return &TagService{Tags: tags, Redis: rdb}
}

func (s *TagService) List(search, category string) ([]model.Tag, error) {
	return s.Tags.List(strings.TrimSpace(search), category, false)
}

// Popular 按使用次数排序；配置 Redis 时缓存 5 分钟
func (s *TagService) Popular(ctx context.Context, limit int) ([]model.Tag, error) {
	key := fmt.Sprintf("%s%d", popularTagsPrefix, limit)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Bytes(); err == nil {
			var tags []model.Tag
			if json.Unmarshal(cached, &tags) == nil {
				return tags, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("Popular tags cache read failed", zap.Error(err))
		}
	}

	tags, err := s.Tags.Popular(limit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(tags); err == nil {
			if err := s.Redis.Set(ctx, key, data, popularTagsTTL).Err(); err != nil {
				logger.Log.Warn("Popular tags cache write failed", zap.Error(err))
			}
		}
	}
	return tags, nil
}

// Invalidate 清空所有热门标签缓存，未配置 Redis 时为空操作
func (s *TagService) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, popularTagsPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("Popular tags cache invalidation failed", zap.Error(err))
	}
}

func (s *TagService) Create(ctx context.Context, actor Actor, req TagRequest) (*model.Tag, error) {
	if !actor.CanAdminister() {
		return nil, model.Forbiddenf("admin role required")
	}
	category := model.TagCategory(req.Category)
	if !category.Valid() {
		return nil, model.Invalidf("invalid category %q", req.Category)
	}

	tag := &model.Tag{
		Name:        strings.ToLower(strings.TrimSpace(req.Name)),
		Description: req.Description,
		Category:    category,
		IsActive:    true,
	}
	if err := s.Tags.Create(tag); err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, actor Actor, id uint, req UpdateTagRequest) (*model.Tag, error) {
	if !actor.CanAdminister() {
		return nil, model.Forbiddenf("admin role required")
	}
	tag, err := s.Tags.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tag.Name = strings.ToLower(strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		tag.Description = *req.Description
	}
	if req.Category != nil {
		category := model.TagCategory(*req.Category)
		if !category.Valid() {
			return nil, model.Invalidf("invalid category %q", *req.Category)
		}
		tag.Category = category
	}
	if req.IsActive != nil {
		tag.IsActive = *req.IsActive
	}

	if err := s.Tags.Update(tag); err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	return tag, nil
}
