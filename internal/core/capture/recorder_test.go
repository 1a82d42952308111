package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRecordReadsUntilEOF(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	r := NewRecorder(time.Second, 1<<20)
	clip, err := r.Record(context.Background(), bytes.NewReader([]byte("RIFF....WAVE")))
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF....WAVE"), clip.Data)
	assert.False(t, clip.TimedOut)
	assert.False(t, clip.Truncated)
}

func TestRecordStopsAtTimeLimit(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	pr, pw := io.Pipe()
	go func() {
		_, _ = pw.Write([]byte("first chunk"))
	}()

	r := NewRecorder(50*time.Millisecond, 1<<20)
	clip, err := r.Record(context.Background(), pr)
	require.NoError(t, err)
	assert.True(t, clip.TimedOut)
	assert.Equal(t, []byte("first chunk"), clip.Data)

	// the client hanging up unblocks the reader goroutine
	_ = pw.Close()
}

func TestRecordTruncatesAtSizeLimit(t *testing.T) {
	r := NewRecorder(time.Second, 4)
	clip, err := r.Record(context.Background(), bytes.NewReader([]byte("0123456789")))
	require.NoError(t, err)
	assert.True(t, clip.Truncated)
	assert.Equal(t, []byte("0123"), clip.Data)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestRecordPropagatesReadErrors(t *testing.T) {
	r := NewRecorder(time.Second, 1<<20)
	_, err := r.Record(context.Background(), failingReader{})
	assert.EqualError(t, err, "connection reset")
}

func TestRecordHonoursContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRecorder(time.Second, 1<<20).Record(ctx, pr)
	assert.ErrorIs(t, err, context.Canceled)
}
