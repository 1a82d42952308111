package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"moodchef/internal/infrastructure/config"
	"moodchef/internal/pkg/common"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Transcriber 將音訊轉為文字
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// WhisperTranscriber 使用 OpenAI Whisper 的語音轉文字
type WhisperTranscriber struct {
	client     *openai.Client
	model      string
	maxRetries int
	retryWait  time.Duration
}

// NewWhisperTranscriber 創建 Whisper 客戶端
func NewWhisperTranscriber(cfg config.OpenAIConfig) *WhisperTranscriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.WhisperModel
	if model == "" {
		model = openai.Whisper1
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}

	return &WhisperTranscriber{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		maxRetries: retries,
		retryWait:  2 * time.Second,
	}
}

// Transcribe 上傳音訊並回傳文字，429 與 5xx 會退避重試
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if filename == "" {
		filename = "audio.wav"
	}

	var lastErr error
	for i := 0; i < w.maxRetries; i++ {
		resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    w.model,
			Reader:   bytes.NewReader(audio),
			FilePath: filename,
		})
		if err == nil {
			if resp.Text == "" {
				return "", ErrEmptyTranscript
			}
			return resp.Text, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return "", fmt.Errorf("%w: whisper: %v", ErrServiceUnavailable, err)
		}

		common.LogWarn("whisper API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		if i < w.maxRetries-1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(w.retryWait * time.Duration(i+1)):
			}
		}
	}

	return "", fmt.Errorf("%w: whisper: exhausted %d retries: %v", ErrServiceUnavailable, w.maxRetries, lastErr)
}

// isRetryable 只有限流與伺服器錯誤需要重試
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return true
		}
	}
	return false
}
