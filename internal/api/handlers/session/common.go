package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"moodchef/internal/core/analysis"
	"moodchef/internal/core/image"
	"moodchef/internal/core/session"
	"moodchef/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// apiError 將領域錯誤對應到 API 錯誤
func apiError(err error) *common.CustomError {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return common.ErrSessionNotFound.Wrap(err)
	case errors.Is(err, session.ErrStepMismatch):
		return common.ErrStepMismatch.Wrap(err)
	case errors.Is(err, session.ErrTerminalStep):
		return common.ErrTerminalStep.Wrap(err)
	case errors.Is(err, session.ErrStale):
		return common.ErrSupersededRequest.Wrap(err)
	case errors.Is(err, session.ErrNoRecommendation):
		return common.ErrNoRecommendation.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	}
	return common.AsCustomError(err)
}

// analysisError 擷取與分析錯誤都可重試，步驟仍可跳過
func analysisError(err error) *common.CustomError {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, image.ErrInvalidImage), errors.Is(err, image.ErrImageTooLarge):
		return common.ErrInvalidImage.Wrap(err)
	case errors.Is(err, analysis.ErrEmptyAudio), errors.Is(err, analysis.ErrEmptyTranscript), errors.As(err, &maxBytes):
		return common.ErrInvalidAudio.Wrap(err)
	case errors.Is(err, analysis.ErrNoFaceDetected):
		return common.ErrNoFaceDetected.Wrap(err)
	case errors.Is(err, analysis.ErrInvalidInput):
		return common.ErrInvalidRequest.Wrap(err)
	case errors.Is(err, session.ErrStale), errors.Is(err, session.ErrStepMismatch), errors.Is(err, session.ErrNotFound):
		return apiError(err)
	}
	return common.ErrAnalysisFailed.Wrap(err)
}

// audioFilename 依 Content-Type 推斷副檔名，Whisper 以副檔名判斷格式
func audioFilename(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch ct {
	case "audio/mpeg", "audio/mp3":
		return "audio.mp3"
	case "audio/webm":
		return "audio.webm"
	case "audio/ogg":
		return "audio.ogg"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "audio.m4a"
	case "audio/flac":
		return "audio.flac"
	default:
		return "audio.wav"
	}
}

func (h *Handler) fail(c *gin.Context, err *common.CustomError) {
	common.WriteError(c, err, h.debug)
}
