package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Snapshot is one recorded license accounting result.
type Snapshot struct {
	ID            string    `json:"id"`
	TakenAt       time.Time `json:"taken_at"`
	TotalUsers    int       `json:"total_users"`
	UsedLicenses  int       `json:"used_licenses"`
	TotalLicenses int       `json:"total_licenses"`
}

// RecordSnapshot stores a snapshot. A zero TakenAt becomes now; a missing ID
// is generated.
func (s *Store) RecordSnapshot(snap Snapshot) (Snapshot, error) {
	if s == nil || s.conn == nil {
		return Snapshot{}, fmt.Errorf("store is not open")
	}
	if snap.TotalUsers < 0 || snap.UsedLicenses < 0 || snap.TotalLicenses < 0 {
		return Snapshot{}, fmt.Errorf("snapshot counts cannot be negative")
	}

	if strings.TrimSpace(snap.ID) == "" {
		snap.ID = uuid.NewString()
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}

	if _, err := s.conn.Exec(
		`INSERT INTO license_snapshots (id, taken_at, total_users, used_licenses, total_licenses) VALUES (?, ?, ?, ?, ?)`,
		snap.ID,
		formatSQLiteTime(snap.TakenAt),
		snap.TotalUsers,
		snap.UsedLicenses,
		snap.TotalLicenses,
	); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	return snap, nil
}

// ListSnapshots returns up to limit snapshots, newest first.
func (s *Store) ListSnapshots(limit int) ([]Snapshot, error) {
	if s == nil || s.conn == nil {
		return nil, fmt.Errorf("store is not open")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.conn.Query(
		`SELECT id, taken_at, total_users, used_licenses, total_licenses
		 FROM license_snapshots
		 ORDER BY taken_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var tsStr string
		if err := rows.Scan(&snap.ID, &tsStr, &snap.TotalUsers, &snap.UsedLicenses, &snap.TotalLicenses); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		ts, err := parseSQLiteTime(tsStr)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", tsStr, err)
		}
		snap.TakenAt = ts
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// Latest returns the most recent snapshot, or nil when none exist.
func (s *Store) Latest() (*Snapshot, error) {
	snaps, err := s.ListSnapshots(1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if ts, err := time.ParseInLocation(sqliteTimeLayout, s, time.UTC); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported time format")
}
