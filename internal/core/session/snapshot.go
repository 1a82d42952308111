package session

import (
	"time"

	"moodchef/internal/core/mood"
	"moodchef/internal/core/recipe"
)

// 推薦狀態
const (
	StatusOK            = "ok"
	StatusNoRecipeFound = "no_recipe_found"
)

// RecommendationView 推薦結果的對外表示
type RecommendationView struct {
	Intent      recipe.Intent   `json:"intent"`
	Fallback    bool            `json:"fallback"`
	Status      string          `json:"status"`
	Recipes     []recipe.Recipe `json:"recipes"`
	ActiveIndex int             `json:"activeIndex"`
	Active      *recipe.Recipe  `json:"active,omitempty"`
	VideoURL    *string         `json:"videoUrl,omitempty"`
	// Retryable 沒有找到食譜時可以重新推薦
	Retryable bool `json:"retryable,omitempty"`
}

// Snapshot 會話的對外表示
type Snapshot struct {
	ID             string              `json:"id"`
	CreatedAt      time.Time           `json:"createdAt"`
	CurrentStep    Step                `json:"currentStep"`
	CompletedSteps []Step              `json:"completedSteps"`
	Mood           mood.State          `json:"mood"`
	Summary        mood.Summary        `json:"summary"`
	Recommendation *RecommendationView `json:"recommendation,omitempty"`
	CollectionSize int                 `json:"collectionSize"`
}

// Snapshot 目前狀態的複本
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.ID,
		CreatedAt:      s.CreatedAt,
		CurrentStep:    s.wizard.Current(),
		CompletedSteps: s.wizard.Completed(),
		Mood:           s.mood.Clone(),
		Summary:        mood.Aggregate(s.mood),
		CollectionSize: s.collection.Len(),
	}
	if s.recommendation != nil {
		view := s.recommendationViewLocked()
		snap.Recommendation = &view
	}
	return snap
}

// RecommendationView 目前推薦的對外表示
func (s *Session) RecommendationView() (RecommendationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recommendation == nil {
		return RecommendationView{}, ErrNoRecommendation
	}
	return s.recommendationViewLocked(), nil
}

func (s *Session) recommendationViewLocked() RecommendationView {
	rec := s.recommendation
	view := RecommendationView{
		Intent:      rec.Intent,
		Fallback:    rec.Fallback,
		Status:      StatusOK,
		Recipes:     make([]recipe.Recipe, len(rec.Recipes)),
		ActiveIndex: s.active,
	}
	for i, r := range rec.Recipes {
		view.Recipes[i] = r.Clone()
		view.Recipes[i].Saved = s.collection.Contains(r.ID)
	}

	if len(view.Recipes) == 0 {
		view.Status = StatusNoRecipeFound
		view.Retryable = true
		return view
	}

	active := view.Recipes[s.active]
	view.Active = &active
	if url, ok := s.videos[active.ID]; ok && url != "" {
		view.VideoURL = &url
	}
	return view
}
