// Package passfile stores the accepted-passphrase set as one phrase
// per line in a 0600 file.
package passfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	storeDirMode = 0o700
	passFileMode = 0o600
)

type Store struct {
	path string
	mu   sync.RWMutex
}

func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Passphrases returns the stored set. A missing file reads as empty so
// callers can fall back to configured defaults.
func (s *Store) Passphrases(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read passphrase file: %w", err)
	}

	var phrases []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		phrases = append(phrases, trimmed)
	}

	return phrases, nil
}

// Put overwrites the stored set.
func (s *Store) Put(ctx context.Context, phrases []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), storeDirMode); err != nil {
		return fmt.Errorf("create passphrase directory: %w", err)
	}

	var builder strings.Builder
	for _, phrase := range phrases {
		builder.WriteString(phrase)
		builder.WriteByte('\n')
	}

	if err := os.WriteFile(s.path, []byte(builder.String()), passFileMode); err != nil {
		return fmt.Errorf("write passphrase file: %w", err)
	}

	return nil
}
