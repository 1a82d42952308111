package recipe

import (
	"context"
	"sync"
	"testing"
	"time"

	"moodchef/internal/core/ai/provider"
	"moodchef/internal/core/ai/service"
	"moodchef/internal/core/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceProvider 依序回傳預設內容，用盡後重複最後一筆
type sequenceProvider struct {
	mu       sync.Mutex
	contents []string
	calls    int
}

func (p *sequenceProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	if i >= len(p.contents) {
		i = len(p.contents) - 1
	}
	p.calls++
	return &provider.Response{Content: p.contents[i]}, nil
}

func (p *sequenceProvider) GetModel() string          { return "fake" }
func (p *sequenceProvider) GetTimeout() time.Duration { return time.Second }
func (p *sequenceProvider) Close() error              { return nil }

func TestResolveAsksModelEveryTime(t *testing.T) {
	p := &sequenceProvider{contents: []string{
		"sorry, I cannot help",
		`{"type":"ramen","reason":"Warm broth.","preparationTime":"medium","complexity":"moderate","comfort":8}`,
	}}
	r := NewResolver(service.NewService(p, cache.NewManager(10, time.Hour)))

	first := r.Resolve(context.Background(), sadState())
	assert.True(t, first.Fallback)

	second := r.Resolve(context.Background(), sadState())
	assert.False(t, second.Fallback)
	assert.Equal(t, "ramen", second.Intent.Type)
	assert.Equal(t, 2, p.calls)
}

func TestFindVideoURLCachesOnlyMatches(t *testing.T) {
	p := &sequenceProvider{contents: []string{
		"no idea", "still no idea", "cannot browse",
		"here: https://youtu.be/abc123",
	}}
	r := NewResolver(service.NewService(p, cache.NewManager(10, time.Hour)))

	_, ok := r.FindVideoURL(context.Background(), "Tomato Soup")
	assert.False(t, ok)
	assert.Equal(t, 3, p.calls)

	url, ok := r.FindVideoURL(context.Background(), "Tomato Soup")
	require.True(t, ok)
	assert.Equal(t, "https://youtu.be/abc123", url)
	assert.Equal(t, 4, p.calls)

	// a found link is served from the cache
	url, ok = r.FindVideoURL(context.Background(), "Tomato Soup")
	require.True(t, ok)
	assert.Equal(t, "https://youtu.be/abc123", url)
	assert.Equal(t, 4, p.calls)
}
