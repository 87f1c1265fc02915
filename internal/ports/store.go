package ports

import (
	"context"

	"github.com/dkazmin/rotabot/internal/domain"
)

// Store persists the per-user collections plus the one global seed
// pool. A missing collection always reads as an empty sequence, never
// an error; write failures propagate and the caller abandons the
// mutation.
type Store interface {
	// Load returns the collection's activities in order. Blank lines
	// are skipped; a missing collection is empty.
	Load(ctx context.Context, userID int64, kind domain.Kind) ([]domain.Activity, error)

	// Replace atomically overwrites the collection with the given
	// sequence.
	Replace(ctx context.Context, userID int64, kind domain.Kind, activities []domain.Activity) error

	// Append durably appends one activity. When the file's last byte
	// is not a newline a separating newline is written first so the
	// previous entry is never corrupted.
	Append(ctx context.Context, userID int64, kind domain.Kind, activity domain.Activity) error

	// LoadSeed, AppendSeed and ReplaceSeed operate on the global seed
	// pool with the same semantics as their per-user counterparts.
	// Seed appends are serialized across users.
	LoadSeed(ctx context.Context) ([]domain.Activity, error)
	AppendSeed(ctx context.Context, activity domain.Activity) error
	ReplaceSeed(ctx context.Context, activities []domain.Activity) error

	// InitializeIfAbsent marks the user as touched and, when their
	// pool is missing or empty, populates it with a copy of the seed
	// pool's current contents. Later mutations to either side never
	// affect the other.
	InitializeIfAbsent(ctx context.Context, userID int64) error

	// Initialized reports whether the user has passed the passphrase
	// gate before.
	Initialized(ctx context.Context, userID int64) (bool, error)

	// WipeAll deletes every per-user collection; the seed pool is
	// dropped too only when includeSeed is set. Reachable only through
	// privileged commands.
	WipeAll(ctx context.Context, includeSeed bool) error
}
