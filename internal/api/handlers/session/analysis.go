package session

import (
	"net/http"
	"strings"

	"moodchef/internal/core/analysis"
	"moodchef/internal/core/mood"
	"moodchef/internal/core/session"
	"moodchef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FacialRequest 臉部分析請求
type FacialRequest struct {
	Image string `json:"image" binding:"required"`
}

// CaptureInfo 錄音擷取資訊
type CaptureInfo struct {
	Bytes      int   `json:"bytes"`
	DurationMs int64 `json:"durationMs"`
	TimedOut   bool  `json:"timedOut"`
	Truncated  bool  `json:"truncated"`
}

// AnalysisResponse 分析結果與更新後的心情摘要
type AnalysisResponse struct {
	Reading interface{}  `json:"reading"`
	Summary mood.Summary `json:"summary"`
	Capture *CaptureInfo `json:"capture,omitempty"`
}

// AnalyzeFacial 臉部情緒分析
func (h *Handler) AnalyzeFacial(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req FacialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, common.ErrInvalidImage.Wrap(err))
		return
	}

	ticket, err := s.BeginAnalysis(session.StepFacial)
	if err != nil {
		h.fail(c, apiError(err))
		return
	}

	reading, err := h.facial.Analyze(c.Request.Context(), req.Image)
	if err != nil {
		common.LogError("facial analysis failed", zap.String("session_id", s.ID), zap.Error(err))
		h.fail(c, analysisError(err))
		return
	}
	if err := s.CommitFacial(ticket, *reading); err != nil {
		h.fail(c, apiError(err))
		return
	}

	c.JSON(http.StatusOK, AnalysisResponse{Reading: reading, Summary: mood.Aggregate(s.Mood())})
}

// AnalyzeVoice 讀取原始音訊內容，時間上限到時以已收到的資料分析
func (h *Handler) AnalyzeVoice(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	ticket, err := s.BeginAnalysis(session.StepVoice)
	if err != nil {
		h.fail(c, apiError(err))
		return
	}

	clip, err := h.recorder.Record(c.Request.Context(), c.Request.Body)
	if err != nil {
		h.fail(c, analysisError(err))
		return
	}

	filename := strings.TrimSpace(c.Query("filename"))
	if filename == "" {
		filename = audioFilename(c.ContentType())
	}

	reading, err := h.voice.Analyze(c.Request.Context(), clip.Data, filename)
	if err != nil {
		common.LogError("voice analysis failed",
			zap.String("session_id", s.ID),
			zap.Int("bytes", len(clip.Data)),
			zap.Error(err),
		)
		h.fail(c, analysisError(err))
		return
	}
	if err := s.CommitVoice(ticket, *reading); err != nil {
		h.fail(c, apiError(err))
		return
	}

	c.JSON(http.StatusOK, AnalysisResponse{
		Reading: reading,
		Summary: mood.Aggregate(s.Mood()),
		Capture: &CaptureInfo{
			Bytes:      len(clip.Data),
			DurationMs: clip.Duration.Milliseconds(),
			TimedOut:   clip.TimedOut,
			Truncated:  clip.Truncated,
		},
	})
}

// AnalyzeText 文字心情分析
func (h *Handler) AnalyzeText(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req analysis.TextInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(c, analysisError(err))
		return
	}

	ticket, err := s.BeginAnalysis(session.StepText)
	if err != nil {
		h.fail(c, apiError(err))
		return
	}

	reading, err := h.text.Analyze(c.Request.Context(), req)
	if err != nil {
		h.fail(c, analysisError(err))
		return
	}
	if err := s.CommitText(ticket, *reading); err != nil {
		h.fail(c, apiError(err))
		return
	}

	c.JSON(http.StatusOK, AnalysisResponse{Reading: reading, Summary: mood.Aggregate(s.Mood())})
}
