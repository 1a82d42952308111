package recipe

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeSource struct {
	mu       sync.Mutex
	searches map[string][]Summary
	failing  map[int]bool
	queries  []string
	details  map[int]int
}

func newFakeSource(searches map[string][]Summary) *fakeSource {
	return &fakeSource{searches: searches, failing: map[int]bool{}, details: map[int]int{}}
}

func (f *fakeSource) SearchRecipes(_ context.Context, query string, number int) ([]Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if query == "explode" {
		return nil, errors.New("search down")
	}
	res := f.searches[query]
	if len(res) > number {
		res = res[:number]
	}
	return res, nil
}

func (f *fakeSource) RecipeDetails(_ context.Context, id int) (*Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[id]++
	if f.failing[id] {
		return nil, errors.New("detail down")
	}
	return &Recipe{
		ID:           id,
		Title:        titleFor(id),
		Ingredients:  []Ingredient{{ID: 1, Name: "Cheese", Amount: 1.5, Unit: "cup"}},
		Instructions: []Instruction{{Number: 1, Step: "Cook."}},
	}, nil
}

func titleFor(id int) string {
	if id == 4 {
		return "Classic Mac and Cheese"
	}
	return "Recipe"
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func ids(recipes []Recipe) []int {
	out := make([]int, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}

func summaries(ids ...int) []Summary {
	out := make([]Summary, len(ids))
	for i, id := range ids {
		out[i] = Summary{ID: id, Title: titleFor(id)}
	}
	return out
}

var comfortIntent = Intent{Type: "comfort food", Reason: "Warm food lifts spirits", PreparationTime: PrepMedium, Complexity: ComplexitySimple, Comfort: 9}

func TestSearchSingleResultPadsToThree(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newFakeSource(map[string][]Summary{"comfort food": summaries(4)})
	got := NewEngine(src, seeded(1)).Search(context.Background(), comfortIntent)

	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, 4, r.ID)
		assert.Equal(t, "Classic Mac and Cheese", r.Title)
		assert.Equal(t, comfortIntent.Reason, r.MoodMatch)
	}
	// the fallback query ran because the primary query returned fewer than 3
	assert.Len(t, src.queries, 2)
	assert.Equal(t, "comfort food", src.queries[0])
	assert.Contains(t, FallbackTerms, src.queries[1])
	// padded duplicates are hydrated once
	assert.Equal(t, 1, src.details[4])
}

func TestSearchManyResultsAreDistinct(t *testing.T) {
	src := newFakeSource(map[string][]Summary{"comfort food": summaries(1, 2, 3, 4, 5, 6)})
	got := NewEngine(src, seeded(7)).Search(context.Background(), comfortIntent)

	require.Len(t, got, 3)
	assert.Len(t, map[int]bool{got[0].ID: true, got[1].ID: true, got[2].ID: true}, 3)
	assert.Len(t, src.queries, 1)
}

func TestSearchNoResults(t *testing.T) {
	src := newFakeSource(map[string][]Summary{})
	got := NewEngine(src, seeded(3)).Search(context.Background(), comfortIntent)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Len(t, src.queries, 2)
}

func TestSearchFailedPrimaryQueryUsesFallback(t *testing.T) {
	searches := map[string][]Summary{}
	for _, term := range FallbackTerms {
		searches[term] = summaries(10, 11, 12)
	}
	src := newFakeSource(searches)

	got := NewEngine(src, seeded(5)).Search(context.Background(), Intent{Type: "explode", Reason: "r"})
	require.Len(t, got, 3)
	assert.ElementsMatch(t, []int{10, 11, 12}, ids(got))
}

func TestSearchDetailFailureIsTolerated(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newFakeSource(map[string][]Summary{"comfort food": summaries(1, 2, 3)})
	src.failing[2] = true
	src.failing[3] = true

	got := NewEngine(src, seeded(9)).Search(context.Background(), comfortIntent)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 1, 1}, ids(got))
	assert.Equal(t, 1, src.details[2])
	assert.Equal(t, 1, src.details[3])
}

func TestSearchAllDetailsFail(t *testing.T) {
	src := newFakeSource(map[string][]Summary{"comfort food": summaries(1, 2, 3)})
	src.failing[1], src.failing[2], src.failing[3] = true, true, true

	assert.Empty(t, NewEngine(src, seeded(2)).Search(context.Background(), comfortIntent))
}

func TestSearchDeterministicWithSeed(t *testing.T) {
	src := newFakeSource(map[string][]Summary{"comfort food": summaries(1, 2, 3, 4, 5, 6, 7)})
	a := NewEngine(src, seeded(42)).Search(context.Background(), comfortIntent)
	b := NewEngine(src, seeded(42)).Search(context.Background(), comfortIntent)
	assert.Equal(t, ids(a), ids(b))
}

func TestSearchResultsAreIndependentCopies(t *testing.T) {
	src := newFakeSource(map[string][]Summary{"comfort food": summaries(4)})
	got := NewEngine(src, seeded(1)).Search(context.Background(), comfortIntent)
	require.Len(t, got, 3)

	got[0].Ingredients[0].Name = "changed"
	assert.Equal(t, "Cheese", got[1].Ingredients[0].Name)
}

func TestDedupByIDKeepsFirstSeenOrder(t *testing.T) {
	in := []Summary{{ID: 3, Title: "a"}, {ID: 1}, {ID: 3, Title: "b"}, {ID: 2}, {ID: 1}}
	out := DedupByID(in)
	assert.Equal(t, []Summary{{ID: 3, Title: "a"}, {ID: 1}, {ID: 2}}, out)
}

func TestPad(t *testing.T) {
	assert.Equal(t, []int{1, 2, 1}, Pad([]int{1, 2}, 3))
	assert.Equal(t, []int{7, 7, 7}, Pad([]int{7}, 3))
	assert.Equal(t, []int{1, 2, 3, 4}, Pad([]int{1, 2, 3, 4}, 3))
	assert.Empty(t, Pad([]int{}, 3))
	// bounded by the iteration cap
	assert.Len(t, Pad([]int{1}, 50), 11)
}
