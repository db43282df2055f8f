// Package runindex records generation runs and their placements in a
// SQLite database so runs can be compared and replayed later.
package runindex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run is the per-run metadata row.
type Run struct {
	RunID      string
	Seed       string
	Kind       string // "island" or "archipelago"
	Digest     string
	Placements int
	Forced     int
	Orphans    int
	CreatedAt  time.Time
}

// Placement is one block row.
type Placement struct {
	X, Y, Z  int
	Material string
	RegionID int
	Rule     string
}

// Index is a single-writer SQLite index: writes go through one goroutine
// so generation never blocks on fsync latency spikes.
type Index struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	mu      sync.Mutex
	lastErr error
}

type reqKind int

const (
	reqRun reqKind = iota + 1
	reqPlacements
)

type req struct {
	kind       reqKind
	run        Run
	runID      string
	placements []Placement
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	seed       TEXT NOT NULL,
	kind       TEXT NOT NULL,
	digest     TEXT NOT NULL,
	placements INTEGER NOT NULL,
	forced     INTEGER NOT NULL,
	orphans    INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS placements (
	run_id   TEXT NOT NULL,
	x        INTEGER NOT NULL,
	y        INTEGER NOT NULL,
	z        INTEGER NOT NULL,
	material TEXT NOT NULL,
	region   INTEGER NOT NULL,
	rule     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS placements_run ON placements(run_id);
`

func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("runindex: mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runindex: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("runindex: schema: %w", err)
	}

	idx := &Index{db: db, ch: make(chan req, 64)}
	idx.wg.Add(1)
	go idx.writer()
	return idx, nil
}

func (i *Index) writer() {
	defer i.wg.Done()
	for r := range i.ch {
		var err error
		switch r.kind {
		case reqRun:
			_, err = i.db.Exec(
				`INSERT INTO runs (run_id, seed, kind, digest, placements, forced, orphans, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				r.run.RunID, r.run.Seed, r.run.Kind, r.run.Digest,
				r.run.Placements, r.run.Forced, r.run.Orphans,
				r.run.CreatedAt.UTC().Format(time.RFC3339Nano))
		case reqPlacements:
			err = i.insertPlacements(r.runID, r.placements)
		}
		if err != nil {
			i.mu.Lock()
			i.lastErr = err
			i.mu.Unlock()
		}
	}
}

func (i *Index) insertPlacements(runID string, ps []Placement) error {
	tx, err := i.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO placements (run_id, x, y, z, material, region, rule) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	for _, p := range ps {
		if _, err := stmt.Exec(runID, p.X, p.Y, p.Z, p.Material, p.RegionID, p.Rule); err != nil {
			stmt.Close()
			tx.Rollback()
			return err
		}
	}
	stmt.Close()
	return tx.Commit()
}

// RecordRun enqueues the run metadata row.
func (i *Index) RecordRun(r Run) {
	i.ch <- req{kind: reqRun, run: r}
}

// RecordPlacements enqueues one batch of placement rows.
func (i *Index) RecordPlacements(runID string, ps []Placement) {
	if len(ps) == 0 {
		return
	}
	cp := make([]Placement, len(ps))
	copy(cp, ps)
	i.ch <- req{kind: reqPlacements, runID: runID, placements: cp}
}

// GetRun reads back one run row. Reads do not wait for queued writes;
// call Close first when the row must be visible.
func (i *Index) GetRun(runID string) (Run, error) {
	var r Run
	var created string
	err := i.db.QueryRow(
		`SELECT run_id, seed, kind, digest, placements, forced, orphans, created_at FROM runs WHERE run_id = ?`,
		runID).Scan(&r.RunID, &r.Seed, &r.Kind, &r.Digest, &r.Placements, &r.Forced, &r.Orphans, &created)
	if err != nil {
		return r, err
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return r, nil
}

// PlacementCount reads back the number of indexed placements for a run.
func (i *Index) PlacementCount(runID string) (int, error) {
	var n int
	err := i.db.QueryRow(`SELECT COUNT(*) FROM placements WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// Close drains the writer and returns the last write error, if any.
func (i *Index) Close() error {
	i.once.Do(func() { close(i.ch) })
	i.wg.Wait()
	err := i.db.Close()
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.lastErr != nil {
		return i.lastErr
	}
	return err
}
