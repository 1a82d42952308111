package recipe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"moodchef/internal/core/ai/service"
	"moodchef/internal/core/mood"
	"moodchef/internal/pkg/common"

	"go.uber.org/zap"
)

// Completer 語言模型呼叫介面，由 ai/service.Service 實作
type Completer interface {
	Complete(ctx context.Context, system, prompt string, opts service.Options) (*service.Response, error)
}

// ResolutionError 分類呼叫失敗、逾時或回應無法解析
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return "recipe type resolution failed: " + e.Err.Error()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolution 推薦使用的食譜類型與其來源
type Resolution struct {
	Intent  Intent       `json:"intent"`
	Summary mood.Summary `json:"summary"`
	// Fallback 為 true 時代表使用本地對照表
	Fallback bool `json:"fallback"`
}

// Resolver 由心情推導食譜類型
type Resolver struct {
	ai Completer
}

// NewResolver 創建解析器
func NewResolver(ai Completer) *Resolver {
	return &Resolver{ai: ai}
}

// intentPayload comfort 可能是小數，先以 float64 接收
type intentPayload struct {
	Type            string  `json:"type"`
	Reason          string  `json:"reason"`
	PreparationTime string  `json:"preparationTime"`
	Complexity      string  `json:"complexity"`
	Comfort         float64 `json:"comfort"`
}

// ResolveStrict 只走語言模型且不使用快取，任何失敗都回傳 *ResolutionError
func (r *Resolver) ResolveStrict(ctx context.Context, state mood.State) (*Intent, error) {
	summary := mood.Aggregate(state)

	moodJSON, err := common.ToJSON(state)
	if err != nil {
		return nil, &ResolutionError{Err: err}
	}

	resp, err := r.ai.Complete(ctx, intentSystemPrompt, buildIntentPrompt(moodJSON, summary.PrimaryEmotion), service.Options{
		Purpose:     "resolve_intent",
		JSONMode:    true,
		MaxTokens:   300,
		Temperature: 0.7,
		NoCache:     true,
	})
	if err != nil {
		return nil, &ResolutionError{Err: err}
	}

	var payload intentPayload
	if err := common.ParseModelJSON(resp.Content, &payload); err != nil {
		return nil, &ResolutionError{Err: err}
	}

	intent, err := payload.toIntent()
	if err != nil {
		return nil, &ResolutionError{Err: err}
	}
	return intent, nil
}

// Resolve 不會失敗：模型失敗時改用本地對照表
func (r *Resolver) Resolve(ctx context.Context, state mood.State) Resolution {
	summary := mood.Aggregate(state)

	intent, err := r.ResolveStrict(ctx, state)
	if err != nil {
		var resErr *ResolutionError
		if errors.As(err, &resErr) {
			common.LogWarn("recipe type resolution failed, using local mapping",
				zap.String("primary_emotion", summary.PrimaryEmotion),
				zap.Error(resErr.Err),
			)
		}
		return Resolution{Intent: FallbackIntent(summary), Summary: summary, Fallback: true}
	}

	return Resolution{Intent: *intent, Summary: summary}
}

func (p intentPayload) toIntent() (*Intent, error) {
	intent := &Intent{
		Type:            strings.TrimSpace(p.Type),
		Reason:          strings.TrimSpace(p.Reason),
		PreparationTime: PrepTime(strings.ToLower(strings.TrimSpace(p.PreparationTime))),
		Complexity:      Complexity(strings.ToLower(strings.TrimSpace(p.Complexity))),
		Comfort:         int(math.Round(p.Comfort)),
	}

	switch {
	case intent.Type == "":
		return nil, fmt.Errorf("missing type")
	case intent.Reason == "":
		return nil, fmt.Errorf("missing reason")
	case !intent.PreparationTime.Valid():
		return nil, fmt.Errorf("invalid preparationTime %q", p.PreparationTime)
	case !intent.Complexity.Valid():
		return nil, fmt.Errorf("invalid complexity %q", p.Complexity)
	case intent.Comfort < 1 || intent.Comfort > 10:
		return nil, fmt.Errorf("comfort %v out of range", p.Comfort)
	}
	return intent, nil
}
