package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// TestSessions keeps login sessions in memory. Sessions never expire.
type TestSessions struct {
	mu       sync.Mutex
	sessions map[string]int
}

func NewTestSessions() *TestSessions {
	return &TestSessions{
		sessions: make(map[string]int),
	}
}

func (s *TestSessions) Login(_ context.Context, userID int) (string, error) {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
	return token, nil
}

func (s *TestSessions) UserID(_ context.Context, token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.sessions[token]
	if !ok {
		return 0, ErrSessionNotFound
	}
	return userID, nil
}

func (s *TestSessions) Logout(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok, nil
}
