package session

import "sync"

// Registry 管理所有活跃会话。
type Registry struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewRegistry 创建会话注册表
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Add 注册会话，同 ID 的旧会话会被关闭
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	old, exists := r.sessions[s.ID()]
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	if exists && old != s {
		old.Close()
	}
}

// Get 获取会话
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[id]
	return s, exists
}

// Remove 关闭并移除会话；若该 ID 已被新会话替换则只关闭 s 本身
func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	if current, exists := r.sessions[s.ID()]; exists && current == s {
		delete(r.sessions, s.ID())
	}
	r.mu.Unlock()

	s.Close()
}

// Count 返回活跃会话数
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll 关闭所有会话
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
