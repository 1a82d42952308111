package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moodchef/internal/core/ai/provider"
	"moodchef/internal/core/cache"
	"moodchef/internal/pkg/common"

	"go.uber.org/zap"
)

// Response AI 回應結構
type Response struct {
	Content string
	Cached  bool
}

// Options 單次呼叫的參數
type Options struct {
	// Purpose 用於日誌，例如 "resolve" 或 "video_lookup"
	Purpose     string
	JSONMode    bool
	MaxTokens   int
	Temperature float64
	// NoCache 略過快取讀寫
	NoCache bool
	// Cacheable 為 nil 時一律寫入快取；否則只寫入回傳 true 的回應
	Cacheable func(content string) bool
}

// Service AI 服務，在模型前面加上以 prompt 為鍵的回應快取
type Service struct {
	provider provider.Provider
	cache    cache.Store
	timeout  time.Duration
}

// NewService 創建 AI 服務；store 為 nil 時不使用快取
func NewService(p provider.Provider, store cache.Store) *Service {
	return &Service{
		provider: p,
		cache:    store,
		timeout:  p.GetTimeout(),
	}
}

// Complete 送出 system 與 user 兩段 prompt 並回傳模型輸出
func (s *Service) Complete(ctx context.Context, system, prompt string, opts Options) (*Response, error) {
	key := cache.Key("llm:"+s.provider.GetModel(), normalizePrompt(system)+"\x00"+normalizePrompt(prompt))
	useCache := s.cache != nil && !opts.NoCache

	if useCache {
		val, err := s.cache.Get(ctx, key)
		if err == nil && val != "" {
			return &Response{Content: val, Cached: true}, nil
		}
		if err != nil && !errors.Is(err, cache.ErrMiss) {
			common.LogWarn("cache read failed", zap.String("purpose", opts.Purpose), zap.Error(err))
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	messages := make([]provider.Message, 0, 2)
	if system != "" {
		messages = append(messages, provider.Message{Role: "system", Content: system})
	}
	messages = append(messages, provider.Message{Role: "user", Content: prompt})

	start := time.Now()
	resp, err := s.provider.Generate(ctx, &provider.Request{
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		JSONMode:    opts.JSONMode,
	})
	common.LogAICall(opts.Purpose, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Purpose, err)
	}

	if useCache && (opts.Cacheable == nil || opts.Cacheable(resp.Content)) {
		if err := s.cache.Set(ctx, key, resp.Content); err != nil {
			common.LogWarn("cache write failed", zap.String("purpose", opts.Purpose), zap.Error(err))
		}
	}

	return &Response{Content: resp.Content}, nil
}

// Model 回傳目前使用的模型
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// Close 關閉底層提供者
func (s *Service) Close() error {
	return s.provider.Close()
}

// normalizePrompt 統一空白，確保快取 key 一致
func normalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}
