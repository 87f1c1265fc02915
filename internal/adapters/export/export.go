// Package export builds operator-facing TOML snapshots of one user's
// collections. The collections themselves stay line-oriented on disk;
// this is read-only tooling on top.
package export

import (
	"context"
	"fmt"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/dkazmin/rotabot/internal/domain"
	"github.com/dkazmin/rotabot/internal/ports"
)

type Snapshot struct {
	UserID     int64    `toml:"user_id"`
	ExportedAt string   `toml:"exported_at"`
	Current    string   `toml:"current,omitempty"`
	Pool       []string `toml:"pool"`
	Completed  []string `toml:"completed"`
}

// Build reads the user's collections into a snapshot.
func Build(ctx context.Context, store ports.Store, userID int64, now time.Time) (Snapshot, error) {
	pool, err := store.Load(ctx, userID, domain.KindPool)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load pool: %w", err)
	}
	current, err := store.Load(ctx, userID, domain.KindCurrent)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load current: %w", err)
	}
	completed, err := store.Load(ctx, userID, domain.KindDone)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load completed: %w", err)
	}

	snapshot := Snapshot{
		UserID:     userID,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Pool:       asStrings(pool),
		Completed:  asStrings(completed),
	}
	if len(current) > 0 {
		snapshot.Current = string(current[0])
	}

	return snapshot, nil
}

// TOML marshals the snapshot.
func (s Snapshot) TOML() ([]byte, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func asStrings(activities []domain.Activity) []string {
	out := make([]string, 0, len(activities))
	for _, a := range activities {
		out = append(out, string(a))
	}
	return out
}
