package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"github.com/go-resty/resty/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 支援 WebP
)

// DefaultMaxDimension 送往臉部辨識前的最長邊上限
const DefaultMaxDimension = 1200

var (
	// ErrInvalidImage 圖片無法解析
	ErrInvalidImage = errors.New("invalid image")
	// ErrImageTooLarge 圖片超過大小上限
	ErrImageTooLarge = errors.New("image too large")
)

// Service 圖片處理服務
type Service struct {
	maxSizeBytes int64
	maxDimension int
	httpClient   *resty.Client
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		maxDimension: DefaultMaxDimension,
		httpClient:   resty.New().SetTimeout(30 * time.Second),
	}
}

// WithMaxDimension 設定最長邊上限，0 代表不縮放
func (s *Service) WithMaxDimension(n int) *Service {
	s.maxDimension = n
	return s
}

// ProcessImage 接受 data URI、純 base64 或 http(s) URL，
// 回傳重新編碼為 JPEG 的純 base64（不含 data URI 前綴）
func (s *Service) ProcessImage(ctx context.Context, imageData string) (string, error) {
	raw, err := s.load(ctx, strings.TrimSpace(imageData))
	if err != nil {
		return "", err
	}

	if int64(len(raw)) > s.maxSizeBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrImageTooLarge, len(raw), s.maxSizeBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode image: %v", ErrInvalidImage, err)
	}
	if !isSupportedFormat(format) {
		return "", fmt.Errorf("%w: unsupported image format: %s", ErrInvalidImage, format)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, s.fit(img), &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fit 等比例縮小到最長邊不超過上限
func (s *Service) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if s.maxDimension <= 0 || (w <= s.maxDimension && h <= s.maxDimension) {
		return img
	}

	scale := float64(s.maxDimension) / float64(max(w, h))
	dst := image.NewRGBA(image.Rect(0, 0, max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// load 取得原始圖片位元組
func (s *Service) load(ctx context.Context, imageData string) ([]byte, error) {
	if imageData == "" {
		return nil, fmt.Errorf("%w: empty image data", ErrInvalidImage)
	}

	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		resp, err := s.httpClient.R().SetContext(ctx).Get(imageData)
		if err != nil {
			return nil, fmt.Errorf("failed to download image: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("%w: download returned status %d", ErrInvalidImage, resp.StatusCode())
		}
		return resp.Body(), nil
	}

	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:image/") {
			return nil, fmt.Errorf("%w: invalid data URI", ErrInvalidImage)
		}
		payload = parts[1]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode base64 data: %v", ErrInvalidImage, err)
	}
	return decoded, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
