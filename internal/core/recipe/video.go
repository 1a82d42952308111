package recipe

import (
	"context"
	"fmt"
	"regexp"

	"moodchef/internal/core/ai/service"
	"moodchef/internal/pkg/common"

	"go.uber.org/zap"
)

var videoURLPattern = regexp.MustCompile(
	`https?://(?:www\.|m\.)?(?:youtube\.com/(?:watch\?v=|embed/)[\w-]+|youtu\.be/[\w-]+|vimeo\.com/\d+)`,
)

// MatchVideoURL 取出第一個 YouTube 或 Vimeo 連結
func MatchVideoURL(text string) (string, bool) {
	url := videoURLPattern.FindString(text)
	return url, url != ""
}

// FindVideoURL 依序嘗試不同措辭，找到第一個影片連結即停止；都沒有時回傳 false
func (r *Resolver) FindVideoURL(ctx context.Context, title string) (string, bool) {
	for i, tmpl := range videoPrompts {
		if ctx.Err() != nil {
			return "", false
		}

		resp, err := r.ai.Complete(ctx, "", fmt.Sprintf(tmpl, title), service.Options{
			Purpose:   "video_lookup",
			MaxTokens: 150,
			Cacheable: func(content string) bool {
				_, ok := MatchVideoURL(content)
				return ok
			},
		})
		if err != nil {
			common.LogWarn("video lookup attempt failed",
				zap.String("title", title),
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			continue
		}

		if url, ok := MatchVideoURL(resp.Content); ok {
			return url, true
		}
	}

	common.LogDebug("no video found", zap.String("title", title))
	return "", false
}
