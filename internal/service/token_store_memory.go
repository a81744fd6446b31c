package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"medcare-api/pkg/jwt"
)

// memoryTokenStore keeps token ids in process. Only suitable for a single
// instance, e.g. local development with TOKEN_STORE=memory.
type memoryTokenStore struct {
	mu     sync.Mutex
	now    func() time.Time
	tokens map[string]time.Time
}

func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{
		now:    time.Now,
		tokens: make(map[string]time.Time),
	}
}

func (s *memoryTokenStore) Save(_ context.Context, tokenType jwt.TokenType, userID int, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(tokenType, userID, tokenID)] = s.now().Add(ttl)
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, tokenType jwt.TokenType, userID int, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tokenKey(tokenType, userID, tokenID)
	expiry, ok := s.tokens[key]
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(s.tokens, key)
		return false, nil
	}
	return true, nil
}

func (s *memoryTokenStore) Revoke(_ context.Context, tokenType jwt.TokenType, userID int, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenKey(tokenType, userID, tokenID))
	return nil
}

func (s *memoryTokenStore) RevokeAll(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tokenType := range []jwt.TokenType{jwt.AccessToken, jwt.RefreshToken} {
		prefix := tokenKey(tokenType, userID, "")
		for key := range s.tokens {
			if strings.HasPrefix(key, prefix) {
				delete(s.tokens, key)
			}
		}
	}
	return nil
}
