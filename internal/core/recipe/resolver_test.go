package recipe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"moodchef/internal/core/ai/service"
	"moodchef/internal/core/mood"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
	opts      []service.Options
}

func (s *scriptedCompleter) Complete(_ context.Context, _, prompt string, opts service.Options) (*service.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	s.opts = append(s.opts, opts)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.responses) {
		return &service.Response{Content: s.responses[i]}, nil
	}
	return &service.Response{Content: ""}, nil
}

func sadState() mood.State {
	r := mood.NewReading([]mood.Emotion{{Label: "sad", Confidence: 80}, {Label: "neutral", Confidence: 20}})
	return mood.State{Facial: &r}
}

func assertWellFormed(t *testing.T, in Intent) {
	t.Helper()
	assert.NotEmpty(t, in.Type)
	assert.NotEmpty(t, in.Reason)
	assert.True(t, in.PreparationTime.Valid())
	assert.True(t, in.Complexity.Valid())
	assert.GreaterOrEqual(t, in.Comfort, 1)
	assert.LessOrEqual(t, in.Comfort, 10)
}

func TestResolveUsesModel(t *testing.T) {
	ai := &scriptedCompleter{responses: []string{
		"```json\n{\"type\":\"hearty stew\",\"reason\":\"Warmth helps.\",\"preparationTime\":\"Lengthy\",\"complexity\":\"moderate\",\"comfort\":8.4}\n```",
	}}
	res := NewResolver(ai).Resolve(context.Background(), sadState())

	assert.False(t, res.Fallback)
	assert.Equal(t, Intent{
		Type:            "hearty stew",
		Reason:          "Warmth helps.",
		PreparationTime: PrepLengthy,
		Complexity:      ComplexityModerate,
		Comfort:         8,
	}, res.Intent)
	assert.True(t, ai.opts[0].JSONMode)
	assert.True(t, ai.opts[0].NoCache)
	assert.Contains(t, ai.prompts[0], `"primaryEmotion":"sad"`)
}

func TestResolveRepairsMalformedJSON(t *testing.T) {
	ai := &scriptedCompleter{responses: []string{
		`{"type":"soup","reason":"Cozy.","preparationTime":"quick","complexity":"simple","comfort":7,}`,
	}}
	intent, err := NewResolver(ai).ResolveStrict(context.Background(), mood.State{})
	require.NoError(t, err)
	assert.Equal(t, "soup", intent.Type)
}

func TestResolveStrictErrors(t *testing.T) {
	tests := []struct {
		name string
		ai   *scriptedCompleter
	}{
		{"call fails", &scriptedCompleter{errs: []error{errors.New("timeout")}}},
		{"not json", &scriptedCompleter{responses: []string{"I think soup."}}},
		{"bad enum", &scriptedCompleter{responses: []string{`{"type":"soup","reason":"x","preparationTime":"forever","complexity":"simple","comfort":5}`}}},
		{"comfort out of range", &scriptedCompleter{responses: []string{`{"type":"soup","reason":"x","preparationTime":"quick","complexity":"simple","comfort":42}`}}},
		{"missing type", &scriptedCompleter{responses: []string{`{"reason":"x","preparationTime":"quick","complexity":"simple","comfort":5}`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.ai).ResolveStrict(context.Background(), sadState())
			var resErr *ResolutionError
			require.ErrorAs(t, err, &resErr)

			res := NewResolver(tt.ai).Resolve(context.Background(), sadState())
			assert.True(t, res.Fallback)
			assertWellFormed(t, res.Intent)
		})
	}
}

func TestResolveFallbackSadMapsToComfortFood(t *testing.T) {
	ai := &scriptedCompleter{errs: []error{errors.New("unavailable")}}
	res := NewResolver(ai).Resolve(context.Background(), sadState())

	assert.True(t, res.Fallback)
	assert.Equal(t, "comfort food", res.Intent.Type)
	assert.GreaterOrEqual(t, res.Intent.Comfort, 7)
	assert.Equal(t, "Your facial expression showed sad. A warm, soothing dish can help lift your spirits", res.Intent.Reason)
}

func TestFallbackIntent(t *testing.T) {
	empty := FallbackIntent(mood.Aggregate(mood.State{}))
	assert.Equal(t, "balanced and nourishing", empty.Type)
	assert.Equal(t, PrepMedium, empty.PreparationTime)
	assert.Equal(t, ComplexityModerate, empty.Complexity)
	assert.Equal(t, 6, empty.Comfort)
	assert.Equal(t, "A well-rounded dish complements your balanced state", empty.Reason)

	unknown := FallbackIntent(mood.Summary{PrimaryEmotion: "anxious", Clauses: []string{"a", "b"}})
	assert.Equal(t, "balanced and nourishing", unknown.Type)
	assert.True(t, strings.HasPrefix(unknown.Reason, "a and b. "))

	for emotion := range fallbackTable {
		assertWellFormed(t, FallbackIntent(mood.Summary{PrimaryEmotion: emotion}))
	}
}

func TestFindVideoURL(t *testing.T) {
	ai := &scriptedCompleter{
		errs: []error{errors.New("boom")},
		responses: []string{
			"",
			"Sorry, I can't browse.",
			"Try this one: https://www.youtube.com/watch?v=abc_123-x&t=10 it is great",
		},
	}
	url, ok := NewResolver(ai).FindVideoURL(context.Background(), "Classic Mac and Cheese")
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc_123-x", url)
	assert.Len(t, ai.prompts, 3)
	assert.Contains(t, ai.prompts[0], "Classic Mac and Cheese")
	assert.NotEqual(t, ai.prompts[0], ai.prompts[1])
}

func TestFindVideoURLNoMatch(t *testing.T) {
	ai := &scriptedCompleter{responses: []string{"no", "nope", "https://example.com/video"}}
	url, ok := NewResolver(ai).FindVideoURL(context.Background(), "Soup")
	assert.False(t, ok)
	assert.Empty(t, url)
	assert.Len(t, ai.prompts, 3)
}

func TestMatchVideoURL(t *testing.T) {
	for _, text := range []string{
		"https://youtu.be/dQw4w9WgXcQ",
		"see https://vimeo.com/123456 now",
		"https://www.youtube.com/embed/xyz",
	} {
		_, ok := MatchVideoURL(text)
		assert.True(t, ok, text)
	}
	_, ok := MatchVideoURL("https://vimeo.com/channels/staff")
	assert.False(t, ok)
}
