package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"moodchef/internal/core/ai/provider"
	"moodchef/internal/core/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	content  string
	err      error
	lastReq  *provider.Request
	deadline bool
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.content}, nil
}

func (f *fakeProvider) GetModel() string          { return "fake" }
func (f *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (f *fakeProvider) Close() error              { return nil }

func TestCompleteUsesCache(t *testing.T) {
	p := &fakeProvider{content: `{"type":"soup"}`}
	store := cache.NewManager(10, time.Minute)
	svc := NewService(p, store)

	first, err := svc.Complete(context.Background(), "sys", "hello   world", Options{Purpose: "test", JSONMode: true})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.True(t, p.lastReq.JSONMode)
	assert.True(t, p.deadline)
	require.Len(t, p.lastReq.Messages, 2)
	assert.Equal(t, "system", p.lastReq.Messages[0].Role)

	second, err := svc.Complete(context.Background(), "sys", "hello world", Options{Purpose: "test"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, 1, p.calls)
}

func TestCompleteNoCache(t *testing.T) {
	p := &fakeProvider{content: "ok"}
	svc := NewService(p, cache.NewManager(10, time.Minute))

	for i := 0; i < 2; i++ {
		_, err := svc.Complete(context.Background(), "", "same", Options{NoCache: true})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, p.calls)
	require.Len(t, p.lastReq.Messages, 1)
}

func TestCompleteProviderError(t *testing.T) {
	boom := errors.New("boom")
	p := &fakeProvider{err: boom}
	svc := NewService(p, nil)

	_, err := svc.Complete(context.Background(), "", "x", Options{Purpose: "resolve"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "resolve")
}

func TestCompleteSkipsUncacheableResponses(t *testing.T) {
	p := &fakeProvider{content: "no link here"}
	svc := NewService(p, cache.NewManager(10, time.Minute))
	opts := Options{Cacheable: func(content string) bool { return content != "no link here" }}

	for i := 0; i < 2; i++ {
		resp, err := svc.Complete(context.Background(), "", "find", opts)
		require.NoError(t, err)
		assert.False(t, resp.Cached)
	}
	assert.Equal(t, 2, p.calls)

	p.content = "https://youtu.be/x"
	_, err := svc.Complete(context.Background(), "", "find", opts)
	require.NoError(t, err)
	resp, err := svc.Complete(context.Background(), "", "find", opts)
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, 3, p.calls)
}
