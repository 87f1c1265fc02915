// Package flatfile persists activity collections as plain text files,
// one activity per line: <uid>.pool.txt, <uid>.current.txt,
// <uid>.done.txt and a <uid>.touched marker per user, plus one global
// seed.txt. Replace is atomic (temp file + rename). The two writes of
// a promote (pool rewrite, then current rewrite) are not transactional;
// both are idempotent and ordered pool-first, so a crash in the window
// can duplicate an activity but never lose one.
package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dkazmin/rotabot/internal/domain"
	"github.com/dkazmin/rotabot/internal/ports"
)

const (
	dirMode         = 0o700
	fileMode        = 0o600
	seedFile        = "seed.txt"
	tempFilePattern = ".rotabot-*.txt.tmp"
)

type Store struct {
	dir string
}

var _ ports.Store = (*Store)(nil)

// Per-path writer locks, shared process-wide so two Store instances
// pointed at the same directory still serialize. The seed file's lock
// is what serializes cross-user seed appends.
var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

func New(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	abs = filepath.Clean(abs)

	if err := os.MkdirAll(abs, dirMode); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	return &Store{dir: abs}, nil
}

func (s *Store) Load(ctx context.Context, userID int64, kind domain.Kind) ([]domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(userID, kind)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	return readLines(path)
}

func (s *Store) Replace(ctx context.Context, userID int64, kind domain.Kind, activities []domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.path(userID, kind)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	return writeLines(path, activities)
}

func (s *Store) Append(ctx context.Context, userID int64, kind domain.Kind, activity domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.path(userID, kind)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	return appendLine(path, activity)
}

func (s *Store) LoadSeed(ctx context.Context) ([]domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.seedPath()
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	return readLines(path)
}

func (s *Store) AppendSeed(ctx context.Context, activity domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.seedPath()
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	return appendLine(path, activity)
}

func (s *Store) ReplaceSeed(ctx context.Context, activities []domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.seedPath()
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	return writeLines(path, activities)
}

func (s *Store) InitializeIfAbsent(ctx context.Context, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	touched := s.path(userID, domain.KindTouched)
	marker, err := os.OpenFile(touched, os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("create touched marker: %w", err)
	}
	if err := marker.Close(); err != nil {
		return fmt.Errorf("close touched marker: %w", err)
	}

	poolPath := s.path(userID, domain.KindPool)
	mu := lockForPath(poolPath)
	mu.Lock()
	defer mu.Unlock()

	pool, err := readLines(poolPath)
	if err != nil {
		return err
	}
	if len(pool) > 0 {
		return nil
	}

	// A slightly stale seed snapshot under a concurrent append is
	// acceptable; the copy is what matters for isolation.
	seed, err := s.LoadSeed(ctx)
	if err != nil {
		return err
	}

	return writeLines(poolPath, seed)
}

func (s *Store) Initialized(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(s.path(userID, domain.KindTouched))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat touched marker: %w", err)
	}

	return true, nil
}

func (s *Store) WipeAll(ctx context.Context, includeSeed bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read data directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == seedFile && !includeSeed {
			continue
		}
		if !strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".touched") {
			continue
		}

		path := filepath.Join(s.dir, name)
		mu := lockForPath(path)
		mu.Lock()
		err := os.Remove(path)
		mu.Unlock()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove collection %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) path(userID int64, kind domain.Kind) string {
	if kind == domain.KindTouched {
		return filepath.Join(s.dir, fmt.Sprintf("%d.touched", userID))
	}
	return filepath.Join(s.dir, fmt.Sprintf("%d.%s.txt", userID, kind))
}

func (s *Store) seedPath() string {
	return filepath.Join(s.dir, seedFile)
}

func readLines(path string) ([]domain.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read collection file: %w", err)
	}

	var activities []domain.Activity
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		activities = append(activities, domain.Activity(trimmed))
	}

	return activities, nil
}

func writeLines(path string, activities []domain.Activity) error {
	var builder strings.Builder
	for _, activity := range activities {
		builder.WriteString(string(activity))
		builder.WriteByte('\n')
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp collection file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.WriteString(builder.String()); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp collection file: %w", err)
	}

	if err := tempFile.Chmod(fileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp collection file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp collection file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace collection file: %w", err)
	}

	cleanup = false
	return nil
}

// appendLine appends one activity, inserting a separating newline
// first when the file's current last byte is not one, so an earlier
// partial write never merges with the new entry.
func appendLine(path string, activity domain.Activity) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, fileMode)
	if err != nil {
		return fmt.Errorf("open collection file: %w", err)
	}

	if err := appendTo(file, activity); err != nil {
		_ = file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close collection file: %w", err)
	}

	return nil
}

func appendTo(file *os.File, activity domain.Activity) error {
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek collection file: %w", err)
	}

	if size > 0 {
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, size-1); err != nil {
			return fmt.Errorf("read collection file tail: %w", err)
		}
		if last[0] != '\n' {
			if _, err := file.WriteString("\n"); err != nil {
				return fmt.Errorf("write separating newline: %w", err)
			}
		}
	}

	if _, err := file.WriteString(string(activity) + "\n"); err != nil {
		return fmt.Errorf("append to collection file: %w", err)
	}

	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
