// Package capture bounds how much audio the server accepts for a single
// recording: a wall-clock ceiling force-stops the capture and whatever arrived
// so far is kept.
package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"moodchef/internal/pkg/common"

	"go.uber.org/zap"
)

const chunkSize = 32 * 1024

// Clip 一段錄音
type Clip struct {
	Data []byte
	// TimedOut 代表錄音被時間上限強制停止
	TimedOut bool
	// Truncated 代表超過大小上限，後續資料被捨棄
	Truncated bool
	Duration  time.Duration
}

// Recorder 有時間與大小上限的錄音器
type Recorder struct {
	maxDuration time.Duration
	maxBytes    int64
}

// NewRecorder 創建錄音器
func NewRecorder(maxDuration time.Duration, maxBytes int64) *Recorder {
	return &Recorder{maxDuration: maxDuration, maxBytes: maxBytes}
}

// MaxDuration 時間上限
func (r *Recorder) MaxDuration() time.Duration {
	return r.maxDuration
}

type chunk struct {
	data []byte
	err  error
}

// Record 從 src 讀取直到 EOF、時間上限或大小上限。
// 時間到時立即回傳已收到的資料，不視為錯誤。
func (r *Recorder) Record(ctx context.Context, src io.Reader) (*Clip, error) {
	start := time.Now()
	done := make(chan struct{})
	defer close(done)

	chunks := make(chan chunk)
	go func() {
		for {
			buf := make([]byte, chunkSize)
			n, err := src.Read(buf)
			select {
			case chunks <- chunk{data: buf[:n], err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	timer := time.NewTimer(r.maxDuration)
	defer timer.Stop()

	var (
		buf  bytes.Buffer
		clip Clip
	)
	for {
		select {
		case c := <-chunks:
			if len(c.data) > 0 {
				remaining := r.maxBytes - int64(buf.Len())
				if int64(len(c.data)) > remaining {
					buf.Write(c.data[:remaining])
					clip.Truncated = true
					return r.finish(&clip, &buf, start), nil
				}
				buf.Write(c.data)
			}
			if c.err != nil {
				if errors.Is(c.err, io.EOF) {
					return r.finish(&clip, &buf, start), nil
				}
				return nil, c.err
			}
		case <-timer.C:
			clip.TimedOut = true
			common.LogInfo("audio capture stopped at time limit",
				zap.Duration("max_duration", r.maxDuration),
				zap.Int("bytes", buf.Len()),
			)
			return r.finish(&clip, &buf, start), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (r *Recorder) finish(clip *Clip, buf *bytes.Buffer, start time.Time) *Clip {
	clip.Data = buf.Bytes()
	clip.Duration = time.Since(start)
	return clip
}
