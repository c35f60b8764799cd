/*
Package audit provides the append-only operation log backed by SQLite.

PURPOSE:
  Every mutating operation (login, personnel create/update, leave
  post/cancel, password reset) leaves one row in logs/audit.db. The
  sheet-side Loglar worksheet holds a human-readable mirror; this local
  table is the queryable record that survives offline stretches.

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statements exist on the entries table. The log is
  evidence, not state.

WAL MODE:
  SQLite is opened with WAL so concurrent readers never block the
  writer.

MIGRATION:
  Schema is auto-migrated on Open(). The table is small and local;
  a versioned migration tool would be overkill here.
*/
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one audit row. Basarili follows the sheet convention: 1 for
// success, 0 for failure.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Kullanici string
	IslemTipi string
	Tablo     string
	KayitID   string
	Detay     string
	IPAdresi  string
	Basarili  bool
}

// Query filters for Recent. Zero values mean "no filter".
type Query struct {
	Kullanici string
	IslemTipi string
	Since     time.Time
	Limit     int
}

// Log is the SQLite-backed audit writer.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the audit database at path and migrates the
// schema. Use ":memory:" in tests.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	l := &Log{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate audit database: %w", err)
	}
	return l, nil
}

func (l *Log) Close() error {
	return l.db.Close()
}

func (l *Log) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		kullanici TEXT NOT NULL,
		islem_tipi TEXT NOT NULL,
		tablo TEXT,
		kayit_id TEXT,
		detay TEXT,
		ip_adresi TEXT,
		basarili INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_entries_timestamp ON entries(timestamp);
	CREATE INDEX IF NOT EXISTS idx_entries_kullanici ON entries(kullanici);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Append writes one entry. A zero Timestamp is stamped with now.
func (l *Log) Append(ctx context.Context, e Entry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	basarili := 0
	if e.Basarili {
		basarili = 1
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO entries (timestamp, kullanici, islem_tipi, tablo, kayit_id, detay, ip_adresi, basarili)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339), e.Kullanici, e.IslemTipi, e.Tablo, e.KayitID, e.Detay, e.IPAdresi, basarili)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Recent returns entries matching q, newest first.
func (l *Log) Recent(ctx context.Context, q Query) ([]Entry, error) {
	query := `SELECT id, timestamp, kullanici, islem_tipi, tablo, kayit_id, detay, ip_adresi, basarili
		FROM entries WHERE 1=1`
	var args []interface{}
	if q.Kullanici != "" {
		query += " AND kullanici = ?"
		args = append(args, q.Kullanici)
	}
	if q.IslemTipi != "" {
		query += " AND islem_tipi = ?"
		args = append(args, q.IslemTipi)
	}
	if !q.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, q.Since.Format(time.RFC3339))
	}
	query += " ORDER BY id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		var basarili int
		if err := rows.Scan(&e.ID, &ts, &e.Kullanici, &e.IslemTipi, &e.Tablo, &e.KayitID, &e.Detay, &e.IPAdresi, &basarili); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339, ts)
		e.Basarili = basarili == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
