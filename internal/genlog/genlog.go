// Package genlog keeps a sqlite index of generated chunks for auditing how
// often and how hard the repair loop works at each level.
package genlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sri-shubham/Everclimb/internal/chunk"
)

// Index is an open generation index.
type Index struct {
	db *sql.DB
}

// Entry is one generated chunk.
type Entry struct {
	Seed      uint32
	Level     int
	Cols      int
	Rows      int
	EntranceQ int
	Coins     int
	Food      int
	Boots     int
	Repairs   int
	Digest    string
	Verified  bool // an independent route check found a climb to the top
	Elapsed   time.Duration
}

// EntryFor summarizes c.
func EntryFor(c *chunk.Chunk, verified bool, elapsed time.Duration) Entry {
	return Entry{
		Seed:      c.Seed(),
		Level:     c.Level(),
		Cols:      c.Cols(),
		Rows:      c.Rows(),
		EntranceQ: c.EntranceQ(),
		Coins:     c.Count(chunk.Coin),
		Food:      c.Count(chunk.Food),
		Boots:     c.Count(chunk.Boots),
		Repairs:   c.Repairs(),
		Digest:    c.DigestString(),
		Verified:  verified,
		Elapsed:   elapsed,
	}
}

// Stats aggregates entries.
type Stats struct {
	Count      int
	AvgRepairs float64
	MaxRepairs int
	AvgCoins   float64
	Unverified int
}

// Open opens or creates the index at path.
func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty index path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init pragmas: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Index{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			level INTEGER NOT NULL,
			cols INTEGER NOT NULL,
			rows INTEGER NOT NULL,
			entrance_q INTEGER NOT NULL,
			coins INTEGER NOT NULL,
			food INTEGER NOT NULL,
			boots INTEGER NOT NULL,
			repairs INTEGER NOT NULL,
			digest TEXT NOT NULL,
			verified INTEGER NOT NULL,
			elapsed_us INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS chunks_level ON chunks(level);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Record appends e.
func (x *Index) Record(ctx context.Context, e Entry) error {
	_, err := x.db.ExecContext(ctx,
		`INSERT INTO chunks (seed,level,cols,rows,entrance_q,coins,food,boots,repairs,digest,verified,elapsed_us,recorded_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		int64(e.Seed), e.Level, e.Cols, e.Rows, e.EntranceQ, e.Coins, e.Food, e.Boots, e.Repairs,
		e.Digest, e.Verified, e.Elapsed.Microseconds(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record seed %d level %d: %w", e.Seed, e.Level, err)
	}
	return nil
}

// Stats aggregates the entries for level, or every level when level is 0.
func (x *Index) Stats(ctx context.Context, level int) (Stats, error) {
	var (
		s          Stats
		avgRepairs sql.NullFloat64
		maxRepairs sql.NullInt64
		avgCoins   sql.NullFloat64
		unverified sql.NullInt64
	)
	row := x.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(repairs), MAX(repairs), AVG(coins), SUM(CASE WHEN verified THEN 0 ELSE 1 END)
		 FROM chunks WHERE ? = 0 OR level = ?`, level, level)
	if err := row.Scan(&s.Count, &avgRepairs, &maxRepairs, &avgCoins, &unverified); err != nil {
		return s, fmt.Errorf("stats level %d: %w", level, err)
	}
	s.AvgRepairs = avgRepairs.Float64
	s.MaxRepairs = int(maxRepairs.Int64)
	s.AvgCoins = avgCoins.Float64
	s.Unverified = int(unverified.Int64)
	return s, nil
}

// Levels returns the distinct recorded levels in ascending order.
func (x *Index) Levels(ctx context.Context) ([]int, error) {
	rows, err := x.db.QueryContext(ctx, `SELECT DISTINCT level FROM chunks ORDER BY level`)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var l int
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Close closes the database.
func (x *Index) Close() error {
	return x.db.Close()
}
