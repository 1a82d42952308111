// Package session exposes the mood wizard over HTTP: session lifecycle,
// analysis steps, recommendations and the saved collection.
package session

import (
	"context"
	"io"

	"moodchef/internal/core/analysis"
	"moodchef/internal/core/capture"
	"moodchef/internal/core/mood"
	"moodchef/internal/core/recipe"
	"moodchef/internal/core/session"

	"github.com/gin-gonic/gin"
)

// FacialAnalyzer 臉部分析
type FacialAnalyzer interface {
	Analyze(ctx context.Context, imageData string) (*mood.Reading, error)
}

// VoiceAnalyzer 語音分析
type VoiceAnalyzer interface {
	Analyze(ctx context.Context, audio []byte, filename string) (*mood.Reading, error)
}

// TextAnalyzer 文字分析
type TextAnalyzer interface {
	Analyze(ctx context.Context, in analysis.TextInput) (*mood.TextReading, error)
}

// Recommender 推薦與影片查詢
type Recommender interface {
	Recommend(ctx context.Context, state mood.State) recipe.Recommendation
	FindVideoURL(ctx context.Context, title string) (string, bool)
}

// AudioRecorder 有上限的錄音
type AudioRecorder interface {
	Record(ctx context.Context, src io.Reader) (*capture.Clip, error)
}

// Deps 處理器依賴
type Deps struct {
	Sessions    *session.Manager
	Facial      FacialAnalyzer
	Voice       VoiceAnalyzer
	Text        TextAnalyzer
	Recommender Recommender
	Recorder    AudioRecorder
	Debug       bool
}

// Handler 會話處理器
type Handler struct {
	sessions    *session.Manager
	facial      FacialAnalyzer
	voice       VoiceAnalyzer
	text        TextAnalyzer
	recommender Recommender
	recorder    AudioRecorder
	debug       bool
}

// NewHandler 創建新的會話處理器
func NewHandler(d Deps) *Handler {
	return &Handler{
		sessions:    d.Sessions,
		facial:      d.Facial,
		voice:       d.Voice,
		text:        d.Text,
		recommender: d.Recommender,
		recorder:    d.Recorder,
		debug:       d.Debug,
	}
}

// Register 註冊路由
func (h *Handler) Register(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	sessions.POST("", h.Create)

	s := sessions.Group("/:id")
	s.GET("", h.Get)
	s.DELETE("", h.Delete)
	s.POST("/continue", h.Continue)
	s.POST("/skip", h.Skip)
	s.POST("/start-over", h.StartOver)

	s.POST("/analysis/facial", h.AnalyzeFacial)
	s.POST("/analysis/voice", h.AnalyzeVoice)
	s.POST("/analysis/text", h.AnalyzeText)

	s.POST("/recommendations", h.Recommend)
	s.POST("/recommendations/next", h.NextRecipe)
	s.GET("/recommendations/current/video", h.Video)

	s.GET("/collection", h.ListCollection)
	s.POST("/collection", h.SaveRecipe)
	s.DELETE("/collection/:recipeId", h.RemoveRecipe)
}

// session 取得路徑中的會話，失敗時已寫入錯誤響應
func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, apiError(err))
		return nil, false
	}
	return s, true
}
