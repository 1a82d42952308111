package session

import (
	"sync"
	"time"

	"moodchef/internal/pkg/common"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Manager 記憶體中的會話，閒置超過 TTL 或超過容量時淘汰
type Manager struct {
	// mu 讓 Get 的續期與 Delete 不會交錯，已刪除的會話不會被加回
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
}

// NewManager 創建會話管理器
func NewManager(maxSessions int, ttl time.Duration) *Manager {
	m := &Manager{}
	m.sessions = expirable.NewLRU[string, *Session](maxSessions, func(id string, _ *Session) {
		common.LogDebug("session evicted", zap.String("session_id", id))
	}, ttl)
	return m
}

// Create 建立新會話
func (m *Manager) Create() *Session {
	s := New(common.GenerateUUID())
	m.sessions.Add(s.ID, s)
	common.LogDebug("session created", zap.String("session_id", s.ID))
	return s
}

// Get 取得會話並延長存活時間
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	m.sessions.Add(id, s)
	return s, nil
}

// Delete 刪除會話；回傳是否存在
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions.Remove(id)
}

// Len 目前會話數
func (m *Manager) Len() int {
	return m.sessions.Len()
}

// Close 清除所有會話
func (m *Manager) Close() {
	m.sessions.Purge()
}
