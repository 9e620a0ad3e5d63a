// Package store persists simulation run records in sqlite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableRuns    = "runs"
	tableBonds   = "bonds"
	tableSamples = "samples"
)

// Record is the persisted outcome of a simulation run.
type Record struct {
	ID              string
	Qudits          int
	Dim             int
	MaxBond         int
	Cutoff          float64
	DiscardedWeight float64
	BondDims        []int
	Samples         [][]int
}

// Store is a sqlite-backed run record store.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	s := &Store{db: db}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) prepare() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, qudits INTEGER, dim INTEGER, max_bond INTEGER, cutoff REAL, discarded REAL) STRICT`, tableRuns),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (run_id TEXT, site INTEGER, dim INTEGER, PRIMARY KEY (run_id, site)) STRICT`, tableBonds),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (run_id TEXT, idx INTEGER, outcome TEXT, PRIMARY KEY (run_id, idx)) STRICT`, tableSamples),
	}
	for _, sqlStr := range stmts {
		if _, err := s.db.ExecContext(ctx, sqlStr); err != nil {
			return errors.Wrap(err, sqlStr)
		}
	}
	return nil
}

// Save writes a run record.
func (s *Store) Save(rec Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (id, qudits, dim, max_bond, cutoff, discarded) VALUES (?, ?, ?, ?, ?, ?)`, tableRuns)
	if _, err := s.db.ExecContext(ctx, sqlStr, rec.ID, rec.Qudits, rec.Dim, rec.MaxBond, rec.Cutoff, rec.DiscardedWeight); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%s %s", sqlStr, rec.ID))
	}

	sqlStr = fmt.Sprintf(`INSERT OR REPLACE INTO %s (run_id, site, dim) VALUES (?, ?, ?)`, tableBonds)
	for site, dim := range rec.BondDims {
		if _, err := s.db.ExecContext(ctx, sqlStr, rec.ID, site, dim); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%s %d", rec.ID, site))
		}
	}

	sqlStr = fmt.Sprintf(`INSERT OR REPLACE INTO %s (run_id, idx, outcome) VALUES (?, ?, ?)`, tableSamples)
	for idx, outcome := range rec.Samples {
		if _, err := s.db.ExecContext(ctx, sqlStr, rec.ID, idx, formatOutcome(outcome)); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%s %d", rec.ID, idx))
		}
	}
	return nil
}

// Load reads the run record with the given id.
func (s *Store) Load(id string) (Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rec := Record{ID: id}
	sqlStr := fmt.Sprintf(`SELECT qudits, dim, max_bond, cutoff, discarded FROM %s WHERE id=?`, tableRuns)
	if err := s.db.QueryRowContext(ctx, sqlStr, id).Scan(&rec.Qudits, &rec.Dim, &rec.MaxBond, &rec.Cutoff, &rec.DiscardedWeight); err != nil {
		return Record{}, errors.Wrap(err, id)
	}

	sqlStr = fmt.Sprintf(`SELECT dim FROM %s WHERE run_id=? ORDER BY site`, tableBonds)
	rows, err := s.db.QueryContext(ctx, sqlStr, id)
	if err != nil {
		return Record{}, errors.Wrap(err, id)
	}
	defer rows.Close()
	for rows.Next() {
		var dim int
		if err := rows.Scan(&dim); err != nil {
			return Record{}, errors.Wrap(err, id)
		}
		rec.BondDims = append(rec.BondDims, dim)
	}
	if err := rows.Err(); err != nil {
		return Record{}, errors.Wrap(err, id)
	}

	sqlStr = fmt.Sprintf(`SELECT outcome FROM %s WHERE run_id=? ORDER BY idx`, tableSamples)
	srows, err := s.db.QueryContext(ctx, sqlStr, id)
	if err != nil {
		return Record{}, errors.Wrap(err, id)
	}
	defer srows.Close()
	for srows.Next() {
		var outcome string
		if err := srows.Scan(&outcome); err != nil {
			return Record{}, errors.Wrap(err, id)
		}
		parsed, err := parseOutcome(outcome)
		if err != nil {
			return Record{}, errors.Wrap(err, id)
		}
		rec.Samples = append(rec.Samples, parsed)
	}
	if err := srows.Err(); err != nil {
		return Record{}, errors.Wrap(err, id)
	}

	return rec, nil
}

func formatOutcome(outcome []int) string {
	ss := make([]string, 0, len(outcome))
	for _, s := range outcome {
		ss = append(ss, strconv.Itoa(s))
	}
	return strings.Join(ss, ",")
}

func parseOutcome(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	outcome := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrap(err, s)
		}
		outcome = append(outcome, v)
	}
	return outcome, nil
}
