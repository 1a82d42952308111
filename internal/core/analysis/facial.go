package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"moodchef/internal/core/image"
	"moodchef/internal/core/mood"
	"moodchef/internal/infrastructure/config"
	"moodchef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// FaceDetector 由 base64 圖片取得臉部情緒
type FaceDetector interface {
	Detect(ctx context.Context, imageBase64 string) (*mood.Reading, error)
}

// FacePPClient Face++ detect API 客戶端
type FacePPClient struct {
	client    *resty.Client
	apiKey    string
	apiSecret string
}

type faceppResponse struct {
	Faces []struct {
		Attributes *struct {
			Emotion map[string]float64 `json:"emotion"`
		} `json:"attributes"`
	} `json:"faces"`
	ErrorMessage string `json:"error_message"`
}

// NewFacePPClient 創建 Face++ 客戶端
func NewFacePPClient(cfg config.FacePPConfig) *FacePPClient {
	return &FacePPClient{
		client:    resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(cfg.Timeout),
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
	}
}

// Detect 呼叫 detect 並回傳第一張臉的情緒分布
func (c *FacePPClient) Detect(ctx context.Context, imageBase64 string) (*mood.Reading, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"api_key":           c.apiKey,
			"api_secret":        c.apiSecret,
			"image_base64":      imageBase64,
			"return_attributes": "emotion",
		}).
		Post("/detect")
	if err != nil {
		return nil, fmt.Errorf("%w: face++ request: %v", ErrServiceUnavailable, err)
	}

	var body faceppResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil && resp.StatusCode() == http.StatusOK {
		return nil, fmt.Errorf("%w: malformed face++ response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := body.ErrorMessage
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("%w: face++ status %d: %s", ErrServiceUnavailable, resp.StatusCode(), msg)
	}

	if len(body.Faces) == 0 || body.Faces[0].Attributes == nil || len(body.Faces[0].Attributes.Emotion) == 0 {
		return nil, ErrNoFaceDetected
	}

	emotions := make([]mood.Emotion, 0, len(body.Faces[0].Attributes.Emotion))
	for label, confidence := range body.Faces[0].Attributes.Emotion {
		emotions = append(emotions, mood.Emotion{Label: mood.NormalizeLabel(label), Confidence: confidence})
	}
	// 依標籤排序，同分時主要情緒固定
	sort.Slice(emotions, func(i, j int) bool { return emotions[i].Label < emotions[j].Label })
	reading := mood.NewReading(emotions)
	return &reading, nil
}

// FacialAnalyzer 先正規化圖片再交給臉部偵測
type FacialAnalyzer struct {
	images   *image.Service
	detector FaceDetector
}

// NewFacialAnalyzer 創建臉部分析器
func NewFacialAnalyzer(images *image.Service, detector FaceDetector) *FacialAnalyzer {
	return &FacialAnalyzer{images: images, detector: detector}
}

// Analyze 分析一張靜態圖片（data URI、base64 或 URL）
func (a *FacialAnalyzer) Analyze(ctx context.Context, imageData string) (*mood.Reading, error) {
	encoded, err := a.images.ProcessImage(ctx, imageData)
	if err != nil {
		return nil, err
	}

	reading, err := a.detector.Detect(ctx, encoded)
	if err != nil {
		common.LogWarn("facial analysis failed", zap.Error(err))
		return nil, err
	}

	common.LogDebug("facial analysis completed",
		zap.String("primary_emotion", reading.PrimaryEmotion),
		zap.Int("labels", len(reading.Emotions)),
	)
	return reading, nil
}
