package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryHistoryStore implements HistoryStore in memory. Used when no
// database path is configured.
type MemoryHistoryStore struct {
	mu    sync.Mutex
	snaps []Snapshot
}

// NewMemoryHistoryStore creates an empty in-memory history store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

// Record appends a snapshot, assigning ID and CreatedAt when unset.
func (h *MemoryHistoryStore) Record(snap Snapshot) (*Snapshot, error) {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	h.mu.Lock()
	h.snaps = append(h.snaps, snap)
	h.mu.Unlock()

	return &snap, nil
}

// Recent returns the newest snapshots first. Limit of 0 defaults to 10.
func (h *MemoryHistoryStore) Recent(limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Reverse insertion order so equal timestamps keep the newest record first.
	out := make([]Snapshot, 0, len(h.snaps))
	for i := len(h.snaps) - 1; i >= 0; i-- {
		out = append(out, h.snaps[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (h *MemoryHistoryStore) Close() error {
	return nil
}
