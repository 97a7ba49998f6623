// Package sqlite persists bundles in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/examdex/pkg/examdex/artifact"
	"github.com/cognicore/examdex/pkg/examdex/index"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Store implements artifact.Store on SQLite
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS builds (
	id TEXT PRIMARY KEY,
	built_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sections (
	kind TEXT PRIMARY KEY,
	total INTEGER NOT NULL,
	last_built TEXT,
	build_id TEXT
);

CREATE TABLE IF NOT EXISTS records (
	kind TEXT NOT NULL,
	id TEXT NOT NULL,
	position INTEGER NOT NULL,
	body TEXT NOT NULL,
	PRIMARY KEY(kind, id)
);

CREATE TABLE IF NOT EXISTS postings (
	kind TEXT NOT NULL,
	dimension TEXT NOT NULL,
	value TEXT NOT NULL,
	record_id TEXT NOT NULL,
	PRIMARY KEY(kind, dimension, value, record_id)
);

CREATE TABLE IF NOT EXISTS display_names (
	kind TEXT NOT NULL,
	dimension TEXT NOT NULL,
	value TEXT NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY(kind, dimension, value)
);

CREATE TABLE IF NOT EXISTS categories (
	kind TEXT NOT NULL,
	category TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(kind, category)
);

CREATE INDEX IF NOT EXISTS idx_postings_record ON postings(kind, record_id);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

var tables = []string{"builds", "sections", "records", "postings", "display_names", "categories"}

// Save replaces the stored bundle in a single transaction
func (s *Store) Save(ctx context.Context, b *artifact.Bundle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO builds (id, built_at) VALUES (?, ?)`,
		b.BuildID, b.BuiltAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	if err := saveSection(ctx, tx, record.KindQuiz, b.Quizzes); err != nil {
		return err
	}
	if err := saveSection(ctx, tx, record.KindCaseAnalysis, b.CaseAnalyses); err != nil {
		return err
	}
	if err := saveSection(ctx, tx, record.KindEssayGuidance, b.EssayGuidance); err != nil {
		return err
	}

	return tx.Commit()
}

func saveSection[R record.Record](ctx context.Context, tx *sql.Tx, kind record.Kind, sec artifact.Section[R]) error {
	md := sec.Metadata
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sections (kind, total, last_built, build_id) VALUES (?, ?, ?, ?)`,
		string(kind), md.TotalCount, md.LastBuilt, md.BuildID,
	); err != nil {
		return err
	}

	for pos, r := range sec.Records {
		body, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", kind, r.RecordID(), err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (kind, id, position, body) VALUES (?, ?, ?, ?)`,
			string(kind), r.RecordID(), pos, string(body),
		); err != nil {
			return fmt.Errorf("insert %s %s: %w", kind, r.RecordID(), err)
		}
	}

	for dim, values := range sec.Indices {
		for value, ids := range values {
			for _, id := range ids {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO postings (kind, dimension, value, record_id) VALUES (?, ?, ?, ?)`,
					string(kind), dim, value, id,
				); err != nil {
					return err
				}
			}
		}
	}

	for dim, names := range sec.DisplayMaps {
		for value, name := range names {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO display_names (kind, dimension, value, name) VALUES (?, ?, ?, ?)`,
				string(kind), dim, value, name,
			); err != nil {
				return err
			}
		}
	}

	for category, count := range md.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (kind, category, count) VALUES (?, ?, ?)`,
			string(kind), category, count,
		); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the stored bundle. An empty database reports ErrNoData.
func (s *Store) Load(ctx context.Context) (*artifact.Bundle, error) {
	var (
		b       artifact.Bundle
		builtAt string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, built_at FROM builds LIMIT 1`).Scan(&b.BuildID, &builtAt)
	if err == sql.ErrNoRows {
		return nil, internalerr.ErrNoData
	}
	if err != nil {
		return nil, err
	}
	if b.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt); err != nil {
		return nil, fmt.Errorf("parse built_at %q: %w", builtAt, err)
	}

	if b.Quizzes, err = loadSection[record.Quiz](ctx, s.db, record.KindQuiz); err != nil {
		return nil, err
	}
	if b.CaseAnalyses, err = loadSection[record.Narrative](ctx, s.db, record.KindCaseAnalysis); err != nil {
		return nil, err
	}
	if b.EssayGuidance, err = loadSection[record.Narrative](ctx, s.db, record.KindEssayGuidance); err != nil {
		return nil, err
	}
	return &b, nil
}

func loadSection[R record.Record](ctx context.Context, db *sql.DB, kind record.Kind) (artifact.Section[R], error) {
	sec := artifact.Section[R]{
		Records:     []R{},
		Indices:     make(index.Postings),
		DisplayMaps: make(index.DisplayMaps),
		Metadata:    index.Metadata{Categories: make(map[string]int)},
	}
	for _, dim := range record.Dimensions(kind) {
		sec.Indices[dim] = make(map[string][]string)
		sec.DisplayMaps[dim] = make(map[string]string)
	}

	var lastBuilt, buildID sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT total, last_built, build_id FROM sections WHERE kind=?`, string(kind),
	).Scan(&sec.Metadata.TotalCount, &lastBuilt, &buildID)
	if err != nil && err != sql.ErrNoRows {
		return sec, err
	}
	sec.Metadata.LastBuilt = lastBuilt.String
	sec.Metadata.BuildID = buildID.String

	rows, err := db.QueryContext(ctx,
		`SELECT id, body FROM records WHERE kind=? ORDER BY position`, string(kind))
	if err != nil {
		return sec, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return sec, err
		}
		var r R
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			return sec, fmt.Errorf("decode %s %s: %w", kind, id, err)
		}
		sec.Records = append(sec.Records, r)
	}
	if err := rows.Err(); err != nil {
		return sec, err
	}

	prows, err := db.QueryContext(ctx,
		`SELECT dimension, value, record_id FROM postings WHERE kind=? ORDER BY dimension, value, record_id`, string(kind))
	if err != nil {
		return sec, err
	}
	defer prows.Close()
	for prows.Next() {
		var dim, value, id string
		if err := prows.Scan(&dim, &value, &id); err != nil {
			return sec, err
		}
		if sec.Indices[dim] == nil {
			sec.Indices[dim] = make(map[string][]string)
		}
		sec.Indices[dim][value] = append(sec.Indices[dim][value], id)
	}
	if err := prows.Err(); err != nil {
		return sec, err
	}

	drows, err := db.QueryContext(ctx,
		`SELECT dimension, value, name FROM display_names WHERE kind=?`, string(kind))
	if err != nil {
		return sec, err
	}
	defer drows.Close()
	for drows.Next() {
		var dim, value, name string
		if err := drows.Scan(&dim, &value, &name); err != nil {
			return sec, err
		}
		if sec.DisplayMaps[dim] == nil {
			sec.DisplayMaps[dim] = make(map[string]string)
		}
		sec.DisplayMaps[dim][value] = name
	}
	if err := drows.Err(); err != nil {
		return sec, err
	}

	crows, err := db.QueryContext(ctx,
		`SELECT category, count FROM categories WHERE kind=?`, string(kind))
	if err != nil {
		return sec, err
	}
	defer crows.Close()
	for crows.Next() {
		var category string
		var count int
		if err := crows.Scan(&category, &count); err != nil {
			return sec, err
		}
		sec.Metadata.Categories[category] = count
	}
	return sec, crows.Err()
}
