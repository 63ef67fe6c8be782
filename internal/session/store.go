// Package session owns the staff bearer token. The token is an opaque string
// issued by the backend; an empty token means unauthenticated. It is persisted
// to a single file so a restarted console keeps its session, the counterpart
// of the browser's local storage entry.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type Store struct {
	path   string
	logger *zap.Logger

	mu    sync.RWMutex
	token string
}

func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Load reads the persisted token, if any. A missing file is not an error,
// it just means no session.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	s.mu.Lock()
	s.token = strings.TrimSpace(string(data))
	s.mu.Unlock()

	s.logger.Info("Session restored", zap.String("path", s.path))
	return nil
}

// Save stores the token in memory and persists it.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear drops the session, in memory and on disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a session token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}
