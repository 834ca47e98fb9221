package service

import (
	"context"
	"fmt"
	"stackit_backend/internal/config"
	"stackit_backend/internal/model"
	"stackit_backend/pkg/logger"
	"stackit_backend/pkg/monitoring"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const moderationPrompt = `Analyze the following content and categorize it as:
- "green" (safe, appropriate content)
- "yellow" (slightly vulgar or inappropriate but not severe)
- "red" (vulgar, offensive, or inappropriate content)

Respond with only one word: green, yellow, or red.`

// OpenAIClassifier 通过 OpenAI 兼容接口给内容打审核标签
// 未配置密钥、超时、返回异常或标签无法识别时一律放行为 green
type OpenAIClassifier struct {
	mu      sync.RWMutex
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIClassifier(cfg config.ModerationConfig) *OpenAIClassifier {
	c := &OpenAIClassifier{}
	c.Reload(cfg)
	return c
}

// Reload 配置热更新时替换客户端
func (c *OpenAIClassifier) Reload(cfg config.ModerationConfig) {
	var client *openai.Client
	if cfg.APIKey != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		client = openai.NewClientWithConfig(oc)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = client
	c.model = cfg.Model
	c.timeout = cfg.Timeout()
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) model.ModerationStatus {
	if strings.TrimSpace(text) == "" {
		return model.ModerationGreen
	}

	status, err := c.classify(ctx, text)
	if err != nil {
		logger.Log.Warn("Moderation classifier failed, defaulting to green", zap.Error(err))
		monitoring.ClassifierResults.WithLabelValues(string(model.ModerationGreen), "fallback").Inc()
		return model.ModerationGreen
	}

	monitoring.ClassifierResults.WithLabelValues(string(status), "ok").Inc()
	return status
}

func (c *OpenAIClassifier) classify(ctx context.Context, text string) (model.ModerationStatus, error) {
	c.mu.RLock()
	client, modelName, timeout := c.client, c.model, c.timeout
	c.mu.RUnlock()

	if client == nil {
		return "", fmt.Errorf("%w: moderation api key not configured", model.ErrUpstreamUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: moderationPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Content: " + text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: classifier returned no choices", model.ErrUpstreamUnavailable)
	}

	label := strings.ToLower(strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), ".\"'`"))
	status, ok := model.ParseModerationStatus(label)
	if !ok {
		return "", fmt.Errorf("%w: unknown label %q", model.ErrUpstreamUnavailable, label)
	}
	return status, nil
}
