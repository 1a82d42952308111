// Package session holds the per-user wizard state: the step machine, the
// accumulated mood readings, the current recommendations and the saved
// collection. Every pipeline stage takes a request token before awaiting I/O
// and commits only while that token is still the latest one.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"moodchef/internal/core/collection"
	"moodchef/internal/core/mood"
	"moodchef/internal/core/recipe"
)

var (
	// ErrNotFound 會話不存在或已過期
	ErrNotFound = errors.New("session not found")
	// ErrStepMismatch 目前步驟不接受此操作
	ErrStepMismatch = errors.New("action not available at the current step")
	// ErrStale 已有更新的請求或精靈已移動
	ErrStale = errors.New("superseded by a newer request")
	// ErrNoRecommendation 尚未有可用的推薦
	ErrNoRecommendation = errors.New("no recipe is currently selected")
)

// Stage 需要請求序號的流程階段
type Stage string

const (
	StageFacial    Stage = "facial"
	StageVoice     Stage = "voice"
	StageText      Stage = "text"
	StageRecommend Stage = "recommend"
	StageVideo     Stage = "video"
)

// Ticket 請求序號；generation 在精靈每次移動時遞增
type Ticket struct {
	stage      Stage
	seq        uint64
	generation uint64
}

// Session 單一使用者的精靈狀態
type Session struct {
	ID        string
	CreatedAt time.Time

	mu             sync.Mutex
	wizard         Wizard
	mood           mood.State
	recommendation *recipe.Recommendation
	active         int
	videos         map[int]string
	tokens         map[Stage]uint64
	generation     uint64

	collection *collection.Store
}

// New 建立新的會話
func New(id string) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		wizard:     NewWizard(),
		videos:     make(map[int]string),
		tokens:     make(map[Stage]uint64),
		collection: collection.NewStore(),
	}
}

// Collection 收藏，不受重新開始影響
func (s *Session) Collection() *collection.Store {
	return s.collection
}

func (s *Session) begin(stage Stage) Ticket {
	s.tokens[stage]++
	return Ticket{stage: stage, seq: s.tokens[stage], generation: s.generation}
}

func (s *Session) fresh(t Ticket) bool {
	return t.generation == s.generation && t.seq == s.tokens[t.stage]
}

// ---------------- 步驟狀態機 ----------------

// Current 目前步驟
func (s *Session) Current() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.Current()
}

// Continue 標記完成並前進，進行中的請求隨之失效
func (s *Session) Continue() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step, err := s.wizard.Continue()
	if err == nil {
		s.generation++
	}
	return step, err
}

// Skip 不標記完成直接前進，進行中的請求隨之失效
func (s *Session) Skip() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step, err := s.wizard.Skip()
	if err == nil {
		s.generation++
	}
	return step, err
}

// StartOver 回到第一步，清除心情、完成紀錄與推薦，保留收藏
func (s *Session) StartOver() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Reset()
	s.mood = mood.State{}
	s.recommendation = nil
	s.active = 0
	s.videos = make(map[int]string)
	s.generation++
}

// ---------------- 心情分析 ----------------

// stageForStep 分析步驟對應的流程階段
func stageForStep(step Step) (Stage, bool) {
	switch step {
	case StepFacial:
		return StageFacial, true
	case StepVoice:
		return StageVoice, true
	case StepText:
		return StageText, true
	}
	return "", false
}

// BeginAnalysis 只有精靈停在該步驟時才能開始分析
func (s *Session) BeginAnalysis(step Step) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stage, ok := stageForStep(step)
	if !ok || s.wizard.Current() != step {
		return Ticket{}, fmt.Errorf("%w: %s analysis requested at step %s", ErrStepMismatch, step, s.wizard.Current())
	}
	return s.begin(stage), nil
}

// CommitFacial 寫入臉部結果
func (s *Session) CommitFacial(t Ticket, r mood.Reading) error {
	return s.commitMood(t, StageFacial, func(m *mood.State) { m.Facial = &r })
}

// CommitVoice 寫入語音結果
func (s *Session) CommitVoice(t Ticket, r mood.Reading) error {
	return s.commitMood(t, StageVoice, func(m *mood.State) { m.Voice = &r })
}

// CommitText 寫入文字結果
func (s *Session) CommitText(t Ticket, r mood.TextReading) error {
	return s.commitMood(t, StageText, func(m *mood.State) { m.Text = &r })
}

func (s *Session) commitMood(t Ticket, stage Stage, apply func(*mood.State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.stage != stage || !s.fresh(t) {
		return ErrStale
	}
	apply(&s.mood)
	return nil
}

// Mood 目前心情狀態的複本
func (s *Session) Mood() mood.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mood.Clone()
}

// ---------------- 推薦 ----------------

// BeginRecommendation 需在食譜步驟；回傳心情複本供鎖外使用
func (s *Session) BeginRecommendation() (Ticket, mood.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard.Current() != StepRecipe {
		return Ticket{}, mood.State{}, fmt.Errorf("%w: recommendations require step %s", ErrStepMismatch, StepRecipe)
	}
	return s.begin(StageRecommend), s.mood.Clone(), nil
}

// CommitRecommendation 取代先前的推薦並選取第一筆
func (s *Session) CommitRecommendation(t Ticket, rec recipe.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.stage != StageRecommend || !s.fresh(t) {
		return ErrStale
	}
	s.recommendation = &rec
	s.active = 0
	s.videos = make(map[int]string)
	s.tokens[StageVideo]++
	return nil
}

// ActiveRecipe 目前選取的食譜
func (s *Session) ActiveRecipe() (recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *Session) activeLocked() (recipe.Recipe, error) {
	if s.recommendation == nil || len(s.recommendation.Recipes) == 0 {
		return recipe.Recipe{}, ErrNoRecommendation
	}
	r := s.recommendation.Recipes[s.active].Clone()
	r.Saved = s.collection.Contains(r.ID)
	return r, nil
}

// NextRecipe 循環選取下一筆
func (s *Session) NextRecipe() (recipe.Recipe, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recommendation == nil || len(s.recommendation.Recipes) == 0 {
		return recipe.Recipe{}, 0, ErrNoRecommendation
	}
	s.active = (s.active + 1) % len(s.recommendation.Recipes)
	r, err := s.activeLocked()
	return r, s.active, err
}

// FindRecommended 在目前推薦中找指定 ID
func (s *Session) FindRecommended(id int) (recipe.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recommendation == nil {
		return recipe.Recipe{}, false
	}
	for _, r := range s.recommendation.Recipes {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return recipe.Recipe{}, false
}

// ---------------- 影片 ----------------

// BeginVideo 針對目前選取的食譜開始查詢；已查過時直接回傳結果
func (s *Session) BeginVideo() (Ticket, recipe.Recipe, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.activeLocked()
	if err != nil {
		return Ticket{}, recipe.Recipe{}, "", false, err
	}
	if url, ok := s.videos[r.ID]; ok {
		return Ticket{}, r, url, true, nil
	}
	return s.begin(StageVideo), r, "", false, nil
}

// CommitVideo 記錄查詢結果，沒有找到時以空字串記錄
func (s *Session) CommitVideo(t Ticket, recipeID int, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.stage != StageVideo || !s.fresh(t) {
		return ErrStale
	}
	s.videos[recipeID] = url
	return nil
}
