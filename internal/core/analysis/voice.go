package analysis

import (
	"context"
	"strings"

	"moodchef/internal/core/mood"
	"moodchef/internal/pkg/common"

	"go.uber.org/zap"
)

// VoiceAnalyzer 語音轉文字後做情感分類
type VoiceAnalyzer struct {
	transcriber Transcriber
	classifier  SentimentClassifier
}

// NewVoiceAnalyzer 創建語音分析器
func NewVoiceAnalyzer(t Transcriber, c SentimentClassifier) *VoiceAnalyzer {
	return &VoiceAnalyzer{transcriber: t, classifier: c}
}

// Analyze 轉錄失敗會回傳錯誤；情感分類失敗時改用逐字稿的關鍵字判斷
func (v *VoiceAnalyzer) Analyze(ctx context.Context, audio []byte, filename string) (*mood.Reading, error) {
	transcript, err := v.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		common.LogWarn("voice transcription failed", zap.Error(err))
		return nil, err
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}

	var emotion mood.Emotion
	s, err := v.classifier.Classify(ctx, transcript)
	if err != nil {
		common.LogWarn("sentiment analysis failed, using keyword heuristic", zap.Error(err))
		emotion = mood.Emotion{Label: HeuristicEmotion(transcript, 0), Confidence: 100}
	} else {
		emotion = mood.Emotion{Label: s.Label, Confidence: s.Confidence()}
	}

	reading := mood.NewReading([]mood.Emotion{emotion})
	reading.Transcript = transcript
	return &reading, nil
}
