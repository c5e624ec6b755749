package ports

import (
	"context"
	"errors"
)

// Snapshot keys used by the state containers. Each key names one wholesale
// serialized record; there are no incremental writes.
const (
	SnapshotSession = "session"
	SnapshotCart    = "cart"
	SnapshotOrders  = "orders"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists whole serialized snapshots under a key. Save always
// replaces the previous value atomically.
type SnapshotStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// SnapshotWriter is the asynchronous write-behind path used by the state
// containers. Enqueue never blocks the caller on I/O and never reports an
// error: a failed write is logged and the in-memory state stays
// authoritative for the rest of the process lifetime.
type SnapshotWriter interface {
	Enqueue(key string, data []byte)
}
