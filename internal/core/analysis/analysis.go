// Package analysis turns raw evidence (a still image, an audio clip, free text)
// into mood readings by calling the external classification services.
package analysis

import "errors"

var (
	// ErrNoFaceDetected 圖片中找不到臉或情緒資料
	ErrNoFaceDetected = errors.New("no face or emotion data detected")
	// ErrServiceUnavailable 外部分析服務失敗
	ErrServiceUnavailable = errors.New("analysis service unavailable")
	// ErrEmptyAudio 沒有收到任何音訊
	ErrEmptyAudio = errors.New("audio data is empty")
	// ErrEmptyTranscript 語音轉文字結果為空
	ErrEmptyTranscript = errors.New("empty transcription")
	// ErrInvalidInput 文字輸入的數值超出範圍
	ErrInvalidInput = errors.New("invalid text input")
)
