package ports

import "context"

// Snapshot keys for the persisted local state. Each key holds one serialized
// wholesale snapshot of its in-memory collection.
const (
	KeyAccounts = "accounts"
	KeySession  = "session"
	KeyDrivers  = "drivers"
	KeyTeams    = "teams"
	KeyContent  = "content" // races + news + config bundle
)

// Store is the persisted local state: a tiny keyed snapshot store. The same
// logic runs against Redis, a file, or an in-memory test double.
//
// Get returns domain.ErrKeyNotFound for an absent key. Callers treat a value
// that fails to parse the same as an absent one (fall back to defaults).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
