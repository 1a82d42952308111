package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code      string `json:"code"`                // 錯誤代碼
	Message   string `json:"message"`             // 錯誤信息
	Details   string `json:"details,omitempty"`   // 詳細信息（僅在開發模式顯示）
	Retryable bool   `json:"retryable,omitempty"` // 使用者是否可以重試
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code      string // 錯誤代碼
	Message   string // 錯誤信息
	Err       error  // 原始錯誤
	Status    int    // HTTP 狀態碼
	Retryable bool
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 errors.Is 可對包裝後的預定義錯誤生效
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap 以預定義錯誤為模板包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	cp := *e
	cp.Err = err
	return &cp
}

// Response 轉為 API 響應，debug 時附帶原始錯誤
func (e *CustomError) Response(debug bool) ErrorResponse {
	resp := ErrorResponse{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
	}
	if debug && e.Err != nil {
		resp.Details = e.Err.Error()
	}
	return resp
}

// AsCustomError 取出 CustomError，無法辨識的錯誤視為內部錯誤
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return ErrInternalError.Wrap(err)
}

func retryable(e *CustomError) *CustomError {
	e.Retryable = true
	return e
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeBadGateway         = "BAD_GATEWAY"         // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "request timeout", http.StatusRequestTimeout, nil)
	ErrConflict        = NewError(ErrCodeConflict, "conflict", http.StatusConflict, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)

	// 業務錯誤：擷取與分析錯誤皆可重試，步驟仍可跳過
	ErrInvalidImage       = retryable(NewError("INVALID_IMAGE", "invalid image data", http.StatusBadRequest, nil))
	ErrInvalidAudio       = retryable(NewError("INVALID_AUDIO", "invalid audio data", http.StatusBadRequest, nil))
	ErrNoFaceDetected     = retryable(NewError("NO_FACE_DETECTED", "no face or emotion data detected", http.StatusUnprocessableEntity, nil))
	ErrAnalysisFailed     = retryable(NewError("ANALYSIS_FAILED", "analysis service failed, please try again", http.StatusBadGateway, nil))
	ErrStepMismatch       = NewError("STEP_MISMATCH", "this action is not available at the current step", http.StatusConflict, nil)
	ErrTerminalStep       = NewError("TERMINAL_STEP", "the wizard is already at the recipe step", http.StatusConflict, nil)
	ErrNoRecommendation   = NewError("NO_RECOMMENDATION", "no recipe is currently selected", http.StatusNotFound, nil)
	ErrSupersededRequest  = NewError("SUPERSEDED", "a newer request has replaced this one", http.StatusConflict, nil)
	ErrSessionNotFound    = NewError("SESSION_NOT_FOUND", "session not found or expired", http.StatusNotFound, nil)
	ErrRecipeNotAvailable = NewError("RECIPE_NOT_AVAILABLE", "recipe is not part of the current recommendations", http.StatusNotFound, nil)
)
