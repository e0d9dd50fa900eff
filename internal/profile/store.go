// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile accumulates weighted keywords per person and persists
// profiles, publications and authorships in SQLite.
//
// The keyword mapping of a profile only grows through Merge and
// MergeKeywords, which add weights and never subtract. The explicit editing
// operations (SetKeyword, RemoveKeywords, DeleteKeywords) exist for curation
// and are never called by the ingest path.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

const (
	dbFile          = "expertise.db"
	defaultPageSize = 20

	// maxInParams bounds the number of placeholders in one IN (...) clause.
	maxInParams = 500
)

// ErrNotFound is returned when a profile or publication does not exist.
var ErrNotFound = errors.New("not found")

// Store manages the profile SQLite database.
type Store struct {
	db       *sql.DB
	dataDir  string
	pageSize int
}

// NewStore opens or creates the profile database at dataDir/expertise.db
// and creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory is not set")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time; transactions serialize on the single connection.
	db.SetMaxOpenConns(1)

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	s := &Store{db: db, dataDir: cfg.DataDir, pageSize: pageSize}
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

// DataDir returns the directory holding the database.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			identity TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			initials TEXT NOT NULL DEFAULT '',
			alias TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			faculty TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			campus TEXT NOT NULL DEFAULT '',
			building TEXT NOT NULL DEFAULT '',
			room TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS keywords (
			profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			keyword TEXT NOT NULL,
			weight REAL NOT NULL,
			PRIMARY KEY (profile_id, keyword)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_keywords_keyword ON keywords(keyword)`,
		`CREATE TABLE IF NOT EXISTS publications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			year INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS authorships (
			publication_id INTEGER NOT NULL REFERENCES publications(id) ON DELETE CASCADE,
			profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			PRIMARY KEY (publication_id, profile_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authorships_profile ON authorships(profile_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetOrCreate returns the profile whose identity matches rec, creating it
// from rec when none exists. Concurrent calls for the same identity resolve
// to a single profile.
func (s *Store) GetOrCreate(ctx context.Context, rec types.AuthorRecord) (types.Profile, error) {
	if err := rec.Validate(); err != nil {
		return types.Profile{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Profile{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := getOrCreate(ctx, tx, rec)
	if err != nil {
		return types.Profile{}, err
	}
	if err := tx.Commit(); err != nil {
		return types.Profile{}, fmt.Errorf("committing profile: %w", err)
	}
	return s.Get(ctx, id)
}

func getOrCreate(ctx context.Context, q querier, rec types.AuthorRecord) (int64, error) {
	identity := rec.Identity()
	n := rec.Name
	_, err := q.ExecContext(ctx,
		`INSERT INTO profiles (identity, title, first_name, last_name, initials, alias,
			email, faculty, department, campus, building, room, website, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(identity) DO NOTHING`,
		identity, n.Title, n.First, n.Last, n.Initials, n.Alias,
		rec.Email, rec.Faculty, rec.Department, rec.Campus, rec.Building, rec.Room, rec.Website,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting profile %q: %w", identity, err)
	}

	var id int64
	if err := q.QueryRowContext(ctx,
		`SELECT id FROM profiles WHERE identity = ?`, identity,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("resolving profile %q: %w", identity, err)
	}
	return id, nil
}

// MergeKeywords adds each delta's weight to the profile's keyword mapping,
// creating keywords that are not yet present. All deltas are applied in one
// transaction.
func (s *Store) MergeKeywords(ctx context.Context, profileID int64, deltas []types.WeightedKeyword) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireProfile(ctx, tx, profileID); err != nil {
		return err
	}
	if err := mergeKeywords(ctx, tx, profileID, deltas); err != nil {
		return err
	}
	return tx.Commit()
}

func mergeKeywords(ctx context.Context, tx *sql.Tx, profileID int64, deltas []types.WeightedKeyword) error {
	if len(deltas) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO keywords (profile_id, keyword, weight) VALUES (?, ?, ?)
		 ON CONFLICT(profile_id, keyword) DO UPDATE SET weight = keywords.weight + excluded.weight`)
	if err != nil {
		return fmt.Errorf("preparing keyword merge: %w", err)
	}
	defer stmt.Close()

	for _, d := range deltas {
		if d.Keyword == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, profileID, d.Keyword, d.Weight); err != nil {
			return fmt.Errorf("merging keyword %q into profile %d: %w", d.Keyword, profileID, err)
		}
	}
	return nil
}

func requireProfile(ctx context.Context, q querier, profileID int64) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = ?`, profileID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("profile %d: %w", profileID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking profile %d: %w", profileID, err)
	}
	return nil
}

// AddPublication stores pub, resolves every author to a profile and merges
// deltas into each of those profiles. Either all of it is applied or none
// of it is. The stored publication is returned with its ID set.
func (s *Store) AddPublication(ctx context.Context, pub types.Publication, deltas []types.WeightedKeyword) (types.Publication, error) {
	year, err := pub.Year()
	if err != nil {
		return types.Publication{}, err
	}
	if len(pub.Authors) == 0 {
		return types.Publication{}, fmt.Errorf("publication %q has no authors", pub.Title)
	}
	for i, a := range pub.Authors {
		if err := a.Validate(); err != nil {
			return types.Publication{}, fmt.Errorf("author %d of %q: %w", i, pub.Title, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Publication{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO publications (title, abstract, date, year, created_at) VALUES (?, ?, ?, ?, ?)`,
		pub.Title, pub.Abstract, strings.TrimSpace(pub.Date), year,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return types.Publication{}, fmt.Errorf("inserting publication: %w", err)
	}
	pubID, err := res.LastInsertId()
	if err != nil {
		return types.Publication{}, fmt.Errorf("reading publication id: %w", err)
	}

	// An author listed twice contributes once.
	merged := make(map[int64]bool, len(pub.Authors))
	for i, a := range pub.Authors {
		profileID, err := getOrCreate(ctx, tx, a)
		if err != nil {
			return types.Publication{}, err
		}
		if merged[profileID] {
			continue
		}
		merged[profileID] = true

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO authorships (publication_id, profile_id, position) VALUES (?, ?, ?)`,
			pubID, profileID, i,
		); err != nil {
			return types.Publication{}, fmt.Errorf("linking author %q: %w", a.Identity(), err)
		}
		if err := mergeKeywords(ctx, tx, profileID, deltas); err != nil {
			return types.Publication{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return types.Publication{}, fmt.Errorf("committing publication: %w", err)
	}
	pub.ID = pubID
	return pub, nil
}

// Stats holds row counts for the store.
type Stats struct {
	Profiles     int
	Publications int
	Keywords     int
}

// Stats counts profiles, publications and distinct keywords.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM profiles),
			(SELECT count(*) FROM publications),
			(SELECT count(DISTINCT keyword) FROM keywords)`,
	).Scan(&st.Profiles, &st.Publications, &st.Keywords)
	if err != nil {
		return Stats{}, fmt.Errorf("counting rows: %w", err)
	}
	return st, nil
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// chunks splits n items into [start, end) ranges of at most maxInParams.
func chunks(n int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += maxInParams {
		end := start + maxInParams
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
