package analysis

import (
	"context"
	"fmt"
	"strings"

	"moodchef/internal/core/mood"
	"moodchef/internal/pkg/common"

	"go.uber.org/zap"
)

// TextInput 使用者自行描述的心情
type TextInput struct {
	Description   string `json:"description"`
	EnergyLevel   int    `json:"energy_level"`
	ComfortDesire int    `json:"comfort_desire"`
}

// Validate 精力與舒適度皆需介於 1 到 10
func (in TextInput) Validate() error {
	if in.EnergyLevel < 1 || in.EnergyLevel > 10 {
		return fmt.Errorf("%w: energy_level must be between 1 and 10", ErrInvalidInput)
	}
	if in.ComfortDesire < 1 || in.ComfortDesire > 10 {
		return fmt.Errorf("%w: comfort_desire must be between 1 and 10", ErrInvalidInput)
	}
	return nil
}

// CombinedText 送往情感分類的合併字串
func (in TextInput) CombinedText() string {
	return fmt.Sprintf("Mood: %s. Energy level: %d/10. Comfort desire: %d/10.",
		strings.TrimSpace(in.Description), in.EnergyLevel, in.ComfortDesire)
}

// TextAnalyzer 文字心情分析
type TextAnalyzer struct {
	classifier SentimentClassifier
}

// NewTextAnalyzer 創建文字分析器
func NewTextAnalyzer(c SentimentClassifier) *TextAnalyzer {
	return &TextAnalyzer{classifier: c}
}

// Analyze 只有輸入不合法時會失敗；分類服務失敗時改用本地關鍵字判斷
func (t *TextAnalyzer) Analyze(ctx context.Context, in TextInput) (*mood.TextReading, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	primary := mood.Neutral
	s, err := t.classifier.Classify(ctx, in.CombinedText())
	if err != nil {
		common.LogWarn("sentiment analysis failed, using keyword heuristic", zap.Error(err))
		primary = HeuristicEmotion(in.Description, in.EnergyLevel)
	} else if s.Label != "" {
		primary = s.Label
	}

	return &mood.TextReading{
		PrimaryEmotion: primary,
		EnergyLevel:    in.EnergyLevel,
		ComfortDesire:  in.ComfortDesire,
	}, nil
}
