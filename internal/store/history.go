// Package store keeps a SQLite history of fetched feed snapshots.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/theirongolddev/p200/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout is fixed-width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot is one stored copy of the feed.
type Snapshot struct {
	ID          string
	FetchedAt   time.Time
	Checksum    uint64
	WeekCount   int
	CurrentWeek int
	TotalGiven  float64 // last record's cumulative, NaN when unknown
	Raw         string
	Records     []model.WeekRecord // filled by Weeks, not by List
}

// Checksum fingerprints feed text for change detection.
func Checksum(raw string) uint64 {
	return xxhash.Sum64String(raw)
}

// History provides SQLite-backed snapshot storage.
type History struct {
	db *sql.DB
}

// DefaultPath returns the XDG cache location of the history database.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "p200", "history.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "p200", "history.db")
}

// Open opens or creates the history database at the given path.
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the history database.
func (h *History) Close() error {
	return h.db.Close()
}

// Save stores a snapshot of raw and its parsed records. The ID and checksum
// are assigned here; the stored snapshot is returned.
func (h *History) Save(raw string, records []model.WeekRecord, currentWeek int, fetchedAt time.Time) (Snapshot, error) {
	s := Snapshot{
		ID:          uuid.NewString(),
		FetchedAt:   fetchedAt.UTC(),
		Checksum:    Checksum(raw),
		WeekCount:   len(records),
		CurrentWeek: currentWeek,
		TotalGiven:  math.NaN(),
		Raw:         raw,
		Records:     records,
	}
	if n := len(records); n > 0 {
		s.TotalGiven = records[n-1].Cumulative
	}

	tx, err := h.db.Begin()
	if err != nil {
		return s, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO snapshots
		(snapshot_id, fetched_at, checksum, week_count, current_week, total_given, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.FetchedAt.Format(timeLayout), formatChecksum(s.Checksum),
		s.WeekCount, s.CurrentWeek, model.Finite(s.TotalGiven), s.Raw,
	)
	if err != nil {
		return s, err
	}

	for i, r := range records {
		_, err = tx.Exec(`INSERT INTO snapshot_weeks
			(snapshot_id, position, label, amount, change, cumulative)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, i+1, r.Label, model.Finite(r.Amount), model.Finite(r.Change), model.Finite(r.Cumulative),
		)
		if err != nil {
			return s, err
		}
	}

	return s, tx.Commit()
}

const snapshotColumns = `snapshot_id, fetched_at, checksum, week_count, current_week, total_given, raw`

// Latest returns the most recent snapshot. ok is false when none exist.
func (h *History) Latest() (s Snapshot, ok bool, err error) {
	row := h.db.QueryRow(`SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY fetched_at DESC LIMIT 1`)
	s, err = scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	return s, true, nil
}

// List returns up to limit snapshots, newest first. limit <= 0 means all.
func (h *History) List(limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := h.db.Query(`SELECT `+snapshotColumns+` FROM snapshots ORDER BY fetched_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Weeks loads the parsed records of one snapshot in feed order.
func (h *History) Weeks(snapshotID string) ([]model.WeekRecord, error) {
	rows, err := h.db.Query(`SELECT label, amount, change, cumulative
		FROM snapshot_weeks WHERE snapshot_id = ? ORDER BY position`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := []model.WeekRecord{}
	for rows.Next() {
		var r model.WeekRecord
		var amount, change, cumulative sql.NullFloat64
		if err := rows.Scan(&r.Label, &amount, &change, &cumulative); err != nil {
			return nil, err
		}
		r.Amount, r.Change, r.Cumulative = nullNaN(amount), nullNaN(change), nullNaN(cumulative)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of stored snapshots.
func (h *History) Count() (int, error) {
	var count int
	err := h.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	return count, err
}

// Prune keeps the newest keep snapshots and deletes the rest.
func (h *History) Prune(keep int) (int64, error) {
	res, err := h.db.Exec(`DELETE FROM snapshots WHERE snapshot_id NOT IN
		(SELECT snapshot_id FROM snapshots ORDER BY fetched_at DESC LIMIT ?)`, max(keep, 0))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var s Snapshot
	var fetched, checksum string
	var total sql.NullFloat64
	if err := row.Scan(&s.ID, &fetched, &checksum, &s.WeekCount, &s.CurrentWeek, &total, &s.Raw); err != nil {
		return s, err
	}
	s.FetchedAt, _ = time.Parse(timeLayout, fetched)
	s.Checksum, _ = strconv.ParseUint(checksum, 16, 64)
	s.TotalGiven = nullNaN(total)
	return s, nil
}

func formatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

func nullNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
