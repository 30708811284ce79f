package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time record of project health, written after a
// nextstep analysis so later runs can report a trend.
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Overall   int       `json:"overall"`
	Velocity  int       `json:"velocity"`
	Quality   int       `json:"quality"`
	Blockers  int       `json:"blockers"`
	Activity  int       `json:"activity"`
	Summary   string    `json:"summary"`
	Files     int       `json:"files"`
	Lines     int       `json:"lines"`
	Todos     int       `json:"todos"`
	Fixmes    int       `json:"fixmes"`
	Commits7d int       `json:"commits_7d"`
}

// HistoryStore records health snapshots and retrieves them newest first.
type HistoryStore interface {
	Record(snap Snapshot) (*Snapshot, error)
	Recent(limit int) ([]Snapshot, error)
	Close() error
}

// SQLiteHistoryStore implements HistoryStore backed by SQLite.
type SQLiteHistoryStore struct {
	db *DB
}

// NewSQLiteHistoryStore creates a history store using the given database.
func NewSQLiteHistoryStore(db *DB) *SQLiteHistoryStore {
	return &SQLiteHistoryStore{db: db}
}

// Record inserts a snapshot, assigning ID and CreatedAt when unset.
func (h *SQLiteHistoryStore) Record(snap Snapshot) (*Snapshot, error) {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	_, err := h.db.sql.Exec(
		`INSERT INTO snapshots (id, created_at, overall, velocity, quality, blockers, activity,
		                        summary, files, lines, todos, fixmes, commits_7d)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.CreatedAt.Format(time.DateTime),
		snap.Overall, snap.Velocity, snap.Quality, snap.Blockers, snap.Activity,
		snap.Summary, snap.Files, snap.Lines, snap.Todos, snap.Fixmes, snap.Commits7d,
	)
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

// Recent returns the newest snapshots first. Limit of 0 defaults to 10.
func (h *SQLiteHistoryStore) Recent(limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := h.db.sql.Query(
		`SELECT id, created_at, overall, velocity, quality, blockers, activity,
		        summary, files, lines, todos, fixmes, commits_7d
		 FROM snapshots
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// Close closes the underlying database.
func (h *SQLiteHistoryStore) Close() error {
	return h.db.Close()
}

func scanSnapshots(rows *sql.Rows) ([]Snapshot, error) {
	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var createdAt string

		if err := rows.Scan(
			&snap.ID, &createdAt,
			&snap.Overall, &snap.Velocity, &snap.Quality, &snap.Blockers, &snap.Activity,
			&snap.Summary, &snap.Files, &snap.Lines, &snap.Todos, &snap.Fixmes, &snap.Commits7d,
		); err != nil {
			continue
		}

		snap.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
