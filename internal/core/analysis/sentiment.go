package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"moodchef/internal/core/mood"
	"moodchef/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// Sentiment 情感分類結果；Score 為 0 代表服務未提供分數
type Sentiment struct {
	Label string
	Score float64
}

// Confidence 轉為 0-100 的信心分數，沒有分數時視為 100
func (s Sentiment) Confidence() float64 {
	if s.Score > 0 {
		return s.Score * 100
	}
	return 100
}

// SentimentClassifier 對文字做情感分類
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (*Sentiment, error)
}

// NLPCloudClient NLP Cloud 情感分析客戶端
type NLPCloudClient struct {
	client *resty.Client
	model  string
}

type sentimentItem struct {
	Label     string  `json:"label"`
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

type sentimentObject struct {
	sentimentItem
	ScoredLabels []sentimentItem `json:"scored_labels"`
}

// NewNLPCloudClient 創建 NLP Cloud 客戶端
func NewNLPCloudClient(cfg config.NLPCloudConfig) *NLPCloudClient {
	return &NLPCloudClient{
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Authorization", "Token "+cfg.APIKey).
			SetHeader("Content-Type", "application/json"),
		model: cfg.Model,
	}
}

// Classify 呼叫 /{model}/sentiment
func (c *NLPCloudClient) Classify(ctx context.Context, text string) (*Sentiment, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		Post(fmt.Sprintf("/%s/sentiment", c.model))
	if err != nil {
		return nil, fmt.Errorf("%w: nlpcloud request: %v", ErrServiceUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: nlpcloud status %d: %s", ErrServiceUnavailable, resp.StatusCode(), resp.String())
	}

	s, err := parseSentiment(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return s, nil
}

// parseSentiment 支援 scored_labels、label/score、sentiment 與陣列四種格式
func parseSentiment(body []byte) (*Sentiment, error) {
	body = bytes.TrimSpace(body)
	var out Sentiment

	if len(body) > 0 && body[0] == '[' {
		var items []sentimentItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("malformed sentiment response: %w", err)
		}
		if len(items) > 0 {
			out.Label = firstNonEmpty(items[0].Label, items[0].Sentiment)
			out.Score = items[0].Score
		}
	} else {
		var obj sentimentObject
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, fmt.Errorf("malformed sentiment response: %w", err)
		}
		out.Label = firstNonEmpty(obj.Label, obj.Sentiment)
		out.Score = obj.Score
		if len(obj.ScoredLabels) > 0 {
			out.Label = firstNonEmpty(obj.ScoredLabels[0].Label, out.Label)
			if obj.ScoredLabels[0].Score > 0 {
				out.Score = obj.ScoredLabels[0].Score
			}
		}
	}

	out.Label = mood.NormalizeLabel(out.Label)
	return &out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
