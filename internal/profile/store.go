// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile stores a test-suite profile in SQLite: items, their parses,
// the candidate graph of each parse result, and the PENMAN output produced
// for it.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/mrs-penman/internal/penman"
	"github.com/pdiddy/mrs-penman/internal/pipeline"
	"github.com/pdiddy/mrs-penman/pkg/types"
)

// ErrNoPath is returned by Open when the profile path is empty.
var ErrNoPath = errors.New("no profile path configured")

// Store manages a profile database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the profile database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.ProfileConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, ErrNoPath
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating profile directory: %w", err)
		}
	}
	return open(cfg.Path)
}

// OpenExisting opens the profile database at cfg.Path. It fails, and creates
// nothing, when the file does not exist.
func OpenExisting(cfg types.ProfileConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, ErrNoPath
	}
	info, err := os.Stat(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening profile: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("opening profile: %s is a directory", cfg.Path)
	}
	return open(cfg.Path)
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS item (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			i_id TEXT NOT NULL UNIQUE,
			i_input TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS parse (
			parse_id INTEGER PRIMARY KEY AUTOINCREMENT,
			i_id TEXT NOT NULL UNIQUE REFERENCES item(i_id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS result (
			parse_id INTEGER NOT NULL REFERENCES parse(parse_id) ON DELETE CASCADE,
			result_id INTEGER NOT NULL,
			mrs TEXT NOT NULL,
			PRIMARY KEY (parse_id, result_id)
		)`,
		`CREATE TABLE IF NOT EXISTS penman (
			i_id TEXT NOT NULL REFERENCES item(i_id) ON DELETE CASCADE,
			result_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			failure_reason TEXT,
			failure_detail TEXT,
			PRIMARY KEY (i_id, result_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// AddItem inserts an item with its graphs as result 0..n-1 of one parse.
// An existing item with the same id is replaced.
func (s *Store) AddItem(ctx context.Context, item types.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM item WHERE i_id = ?`, item.ID); err != nil {
		return fmt.Errorf("deleting old item %s: %w", item.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO item (i_id, i_input) VALUES (?, ?)`, item.ID, item.Input,
	); err != nil {
		return fmt.Errorf("inserting item %s: %w", item.ID, err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO parse (i_id) VALUES (?)`, item.ID)
	if err != nil {
		return fmt.Errorf("inserting parse for %s: %w", item.ID, err)
	}
	parseID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading parse id for %s: %w", item.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO result (parse_id, result_id, mrs) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, g := range item.Graphs {
		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("encoding item %s result %d: %w", item.ID, i, err)
		}
		if _, err := stmt.ExecContext(ctx, parseID, i, string(data)); err != nil {
			return fmt.Errorf("inserting item %s result %d: %w", item.ID, i, err)
		}
	}

	return tx.Commit()
}

// Import adds every item of src and returns how many were stored.
func (s *Store) Import(ctx context.Context, src pipeline.ItemSource) (int, error) {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}

		item, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("reading item %d: %w", n+1, err)
		}
		if err := s.AddItem(ctx, item); err != nil {
			return n, err
		}
		n++
	}
}

// Items loads every item that has at least one result, in insertion order,
// with its graphs ordered by result id. Items without results are skipped.
func (s *Store) Items(ctx context.Context) (pipeline.ItemSource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.i_id, i.i_input, r.result_id, r.mrs
		 FROM item i
		 JOIN parse p ON p.i_id = i.i_id
		 JOIN result r ON r.parse_id = p.parse_id
		 ORDER BY i.seq, r.result_id`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []types.Item
	for rows.Next() {
		var (
			id, input string
			resultID  int
			mrs       string
		)
		if err := rows.Scan(&id, &input, &resultID, &mrs); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if len(items) == 0 || items[len(items)-1].ID != id {
			items = append(items, types.Item{ID: id, Input: input})
		}
		var g types.Graph
		if err := json.Unmarshal([]byte(mrs), &g); err != nil {
			return nil, fmt.Errorf("decoding item %s result %d: %w", id, resultID, err)
		}
		cur := &items[len(items)-1]
		cur.Graphs = append(cur.Graphs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return pipeline.Items(items...), nil
}

// Output is a stored PENMAN rendering of one result.
type Output struct {
	ItemID   string
	ResultID int
	Text     string
	Failure  *penman.Failure
}

// SaveOutput records the PENMAN text for one result, replacing any earlier
// output. failure may be nil.
func (s *Store) SaveOutput(ctx context.Context, itemID string, index int, text string, failure *penman.Failure) error {
	var reason, detail sql.NullString
	if failure != nil {
		reason = sql.NullString{String: string(failure.Reason), Valid: true}
		detail = sql.NullString{String: failure.Detail, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO penman (i_id, result_id, text, failure_reason, failure_detail)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(i_id, result_id) DO UPDATE SET
			text=excluded.text, failure_reason=excluded.failure_reason,
			failure_detail=excluded.failure_detail`,
		itemID, index, text, reason, detail,
	)
	if err != nil {
		return fmt.Errorf("saving output for item %s result %d: %w", itemID, index, err)
	}
	return nil
}

// SaveResult implements pipeline.ResultSink.
func (s *Store) SaveResult(ctx context.Context, itemID string, index int, res penman.Result) error {
	return s.SaveOutput(ctx, itemID, index, res.Text, res.Failure)
}

// Outputs returns the stored outputs of an item ordered by result id.
func (s *Store) Outputs(ctx context.Context, itemID string) ([]Output, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT result_id, text, failure_reason, failure_detail
		 FROM penman WHERE i_id = ? ORDER BY result_id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying outputs: %w", err)
	}
	defer rows.Close()

	var outs []Output
	for rows.Next() {
		o := Output{ItemID: itemID}
		var reason, detail sql.NullString
		if err := rows.Scan(&o.ResultID, &o.Text, &reason, &detail); err != nil {
			return nil, fmt.Errorf("scanning output: %w", err)
		}
		if reason.Valid {
			o.Failure = &penman.Failure{Reason: penman.Reason(reason.String), Detail: detail.String}
		}
		outs = append(outs, o)
	}
	return outs, rows.Err()
}
