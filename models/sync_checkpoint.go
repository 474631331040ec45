package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncCheckpoint records the last successful sync for one user. It is
// owned by the orchestrator and written only on per-user success, so a
// failed user stays "unprocessed" and is retried on a later invocation.
type SyncCheckpoint struct {
	UserID       int64     `db:"user_id"`
	LastRunID    uuid.UUID `db:"last_run_id"`
	LastSyncedAt time.Time `db:"last_synced_at"`
}

// IsFresh reports whether the checkpoint falls within the freshness
// window relative to now. A fresh checkpoint means the user was already
// processed this cycle and is deprioritized during selection.
func (c *SyncCheckpoint) IsFresh(now time.Time, window time.Duration) bool {
	return now.Sub(c.LastSyncedAt) < window
}
