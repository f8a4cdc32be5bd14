// Package store persists discovered servers to SQLite: insert-or-update
// keyed by IP, a targeted field patch used by the refresh loop, and a
// full scan for periodic re-probing.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/go-mclib/scanner/internal/mcerr"
	"github.com/go-mclib/scanner/mcstatus"
)

// ServerRecord is the unit of persistence. FirstSeen records when the
// IP was first discovered, separate from LastSeen's rolling update.
type ServerRecord struct {
	IP        string
	Port      string
	License   int
	Status    mcstatus.Status
	Players   []json.RawMessage
	FirstSeen time.Time
	LastSeen  time.Time
}

// Store is the persistence interface the scan and refresh pipelines
// depend on.
type Store interface {
	Add(ctx context.Context, rec ServerRecord) error
	Update(ctx context.Context, ip string, status mcstatus.Status, now time.Time, newSamples []json.RawMessage) error
	All(ctx context.Context) ([]ServerRecord, error)
	Close() error
}

// SQLiteStore implements Store over database/sql with the
// github.com/mattn/go-sqlite3 driver.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates (if needed) the schema at path and returns a ready Store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", mcerr.ErrStore, path, err)
	}
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS servers (
	ip           TEXT PRIMARY KEY,
	port         TEXT NOT NULL,
	license      INTEGER NOT NULL,
	version_name TEXT NOT NULL,
	protocol     INTEGER NOT NULL,
	description  TEXT NOT NULL,
	online       INTEGER NOT NULL,
	max_online   INTEGER NOT NULL,
	players      TEXT NOT NULL,
	first_seen   INTEGER NOT NULL,
	last_seen    INTEGER NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("%w: init schema: %v", mcerr.ErrStore, err)
	}
	return nil
}

// Add inserts rec, or upserts it if ip already exists: first_seen and
// the accumulated player set are preserved across an upsert (rec.Players
// is only stored on first insert), every other field is replaced by the
// new value.
func (s *SQLiteStore) Add(ctx context.Context, rec ServerRecord) error {
	players, err := json.Marshal(rec.Players)
	if err != nil {
		return fmt.Errorf("%w: marshal players: %v", mcerr.ErrJSON, err)
	}

	const q = `
INSERT INTO servers (ip, port, license, version_name, protocol, description, online, max_online, players, first_seen, last_seen)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(ip) DO UPDATE SET
	port = excluded.port,
	license = excluded.license,
	version_name = excluded.version_name,
	protocol = excluded.protocol,
	description = excluded.description,
	online = excluded.online,
	max_online = excluded.max_online,
	last_seen = excluded.last_seen;`

	_, err = s.db.ExecContext(ctx, q,
		rec.IP, rec.Port, rec.License,
		rec.Status.VersionName, rec.Status.Protocol, rec.Status.Description,
		rec.Status.PlayersOnline, rec.Status.PlayersMax,
		string(players), rec.FirstSeen.Unix(), rec.LastSeen.Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: add %s: %v", mcerr.ErrStore, rec.IP, err)
	}
	return nil
}

// Update patches status, last_seen, and the player sample set for an
// already-persisted ip. The player merge is additive and idempotent:
// newSamples are unioned with the stored set by exact-value equality,
// never a blind replace.
func (s *SQLiteStore) Update(ctx context.Context, ip string, status mcstatus.Status, now time.Time, newSamples []json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: update %s: begin tx: %v", mcerr.ErrStore, ip, err)
	}
	defer tx.Rollback()

	var existingJSON string
	err = tx.QueryRowContext(ctx, `SELECT players FROM servers WHERE ip = ?`, ip).Scan(&existingJSON)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: update %s: no such record", mcerr.ErrStore, ip)
	}
	if err != nil {
		return fmt.Errorf("%w: update %s: read players: %v", mcerr.ErrStore, ip, err)
	}

	var existing []json.RawMessage
	if err := json.Unmarshal([]byte(existingJSON), &existing); err != nil {
		return fmt.Errorf("%w: update %s: unmarshal players: %v", mcerr.ErrJSON, ip, err)
	}

	merged := mergePlayerSamples(existing, newSamples)
	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("%w: update %s: marshal players: %v", mcerr.ErrJSON, ip, err)
	}

	const q = `
UPDATE servers SET
	version_name = ?, protocol = ?, description = ?, online = ?, max_online = ?,
	players = ?, last_seen = ?
WHERE ip = ?;`
	_, err = tx.ExecContext(ctx, q,
		status.VersionName, status.Protocol, status.Description,
		status.PlayersOnline, status.PlayersMax,
		string(mergedJSON), now.Unix(), ip,
	)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", mcerr.ErrStore, ip, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: update %s: commit: %v", mcerr.ErrStore, ip, err)
	}
	return nil
}

// mergePlayerSamples unions existing and fresh by exact-value equality,
// preserving existing's order and appending only samples not already
// present.
func mergePlayerSamples(existing, fresh []json.RawMessage) []json.RawMessage {
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[string(e)] = struct{}{}
	}
	merged := existing
	for _, f := range fresh {
		if _, ok := seen[string(f)]; ok {
			continue
		}
		seen[string(f)] = struct{}{}
		merged = append(merged, f)
	}
	return merged
}

// All returns every persisted record.
func (s *SQLiteStore) All(ctx context.Context) ([]ServerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT ip, port, license, version_name, protocol, description, online, max_online, players, first_seen, last_seen
FROM servers;`)
	if err != nil {
		return nil, fmt.Errorf("%w: all: %v", mcerr.ErrStore, err)
	}
	defer rows.Close()

	var out []ServerRecord
	for rows.Next() {
		var rec ServerRecord
		var playersJSON string
		var firstSeen, lastSeen int64
		if err := rows.Scan(
			&rec.IP, &rec.Port, &rec.License,
			&rec.Status.VersionName, &rec.Status.Protocol, &rec.Status.Description,
			&rec.Status.PlayersOnline, &rec.Status.PlayersMax,
			&playersJSON, &firstSeen, &lastSeen,
		); err != nil {
			return nil, fmt.Errorf("%w: all: scan: %v", mcerr.ErrStore, err)
		}
		if err := json.Unmarshal([]byte(playersJSON), &rec.Players); err != nil {
			return nil, fmt.Errorf("%w: all: unmarshal players: %v", mcerr.ErrJSON, err)
		}
		rec.FirstSeen = time.Unix(firstSeen, 0).UTC()
		rec.LastSeen = time.Unix(lastSeen, 0).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: all: %v", mcerr.ErrStore, err)
	}
	return out, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
