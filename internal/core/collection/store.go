// Package collection keeps the recipes a user has saved during a session.
package collection

import (
	"sync"

	"moodchef/internal/core/recipe"
)

// Store 收藏的食譜，以 ID 去重並保留加入順序
type Store struct {
	mu      sync.RWMutex
	recipes []recipe.Recipe
	index   map[int]int
}

// NewStore 創建空的收藏
func NewStore() *Store {
	return &Store{index: make(map[int]int)}
}

// Save 已存在相同 ID 時不做任何事，否則標記為已收藏並附加到最後。
// 回傳是否有新增。
func (s *Store) Save(r recipe.Recipe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[r.ID]; ok {
		return false
	}
	saved := r.Clone()
	saved.Saved = true
	s.index[r.ID] = len(s.recipes)
	s.recipes = append(s.recipes, saved)
	return true
}

// Remove 移除指定 ID；不存在時不做任何事。回傳是否有移除。
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return false
	}
	s.recipes = append(s.recipes[:pos], s.recipes[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.recipes); i++ {
		s.index[s.recipes[i].ID] = i
	}
	return true
}

// List 依加入順序回傳複本
func (s *Store) List() []recipe.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recipe.Recipe, len(s.recipes))
	for i, r := range s.recipes {
		out[i] = r.Clone()
	}
	return out
}

// Contains 是否已收藏
func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Len 收藏數量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}
