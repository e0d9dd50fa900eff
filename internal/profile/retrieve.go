// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// ListOptions pages through profiles or publications.
type ListOptions struct {
	// Offset skips this many rows.
	Offset int

	// Limit caps the row count. Zero uses the store page size.
	Limit int
}

const profileColumns = `id, identity, title, first_name, last_name, initials, alias,
	email, faculty, department, campus, building, room, website`

func scanProfile(sc interface{ Scan(...any) error }) (types.Profile, error) {
	var p types.Profile
	n := &p.Name
	err := sc.Scan(&p.ID, &p.Identity, &n.Title, &n.First, &n.Last, &n.Initials, &n.Alias,
		&p.Email, &p.Faculty, &p.Department, &p.Campus, &p.Building, &p.Room, &p.Website)
	p.Keywords = map[string]float64{}
	return p, err
}

// Get returns the profile with the given ID, including its full keyword
// mapping and publication list.
func (s *Store) Get(ctx context.Context, id int64) (types.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Profile{}, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Profile{}, fmt.Errorf("reading profile %d: %w", id, err)
	}
	return s.complete(ctx, p)
}

// Lookup returns the profile whose identity matches rec.
func (s *Store) Lookup(ctx context.Context, rec types.AuthorRecord) (types.Profile, error) {
	identity := rec.Identity()
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE identity = ?`, identity))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Profile{}, fmt.Errorf("profile %q: %w", identity, ErrNotFound)
	}
	if err != nil {
		return types.Profile{}, fmt.Errorf("reading profile %q: %w", identity, err)
	}
	return s.complete(ctx, p)
}

func (s *Store) complete(ctx context.Context, p types.Profile) (types.Profile, error) {
	profiles := []types.Profile{p}
	if err := s.loadKeywords(ctx, profiles); err != nil {
		return types.Profile{}, err
	}
	refs, err := s.publicationRefs(ctx, p.ID)
	if err != nil {
		return types.Profile{}, err
	}
	profiles[0].Publications = refs
	return profiles[0], nil
}

// List returns a page of profiles ordered by ID, with their keyword
// mappings, and the total number of profiles.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Profile, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.pageSize
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM profiles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting profiles: %w", err)
	}

	profiles, err := s.queryProfiles(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY id LIMIT ? OFFSET ?`,
		limit, opts.Offset)
	if err != nil {
		return nil, 0, err
	}
	if err := s.loadKeywords(ctx, profiles); err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// Candidates returns every profile whose keyword mapping contains at least
// one of keywords, ordered by ID, each with its full keyword mapping.
func (s *Store) Candidates(ctx context.Context, keywords []string) ([]types.Profile, error) {
	keywords = dedupe(keywords)
	if len(keywords) == 0 {
		return nil, nil
	}

	ids := map[int64]bool{}
	for _, c := range chunks(len(keywords)) {
		part := keywords[c[0]:c[1]]
		args := make([]any, len(part))
		for i, k := range part {
			args[i] = k
		}
		rows, err := s.db.QueryContext(ctx,
			`SELECT DISTINCT profile_id FROM keywords WHERE keyword IN (`+placeholders(len(part))+`)`,
			args...)
		if err != nil {
			return nil, fmt.Errorf("querying candidates: %w", err)
		}
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning candidate: %w", err)
			}
			ids[id] = true
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterating candidates: %w", err)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	sorted := make([]int64, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var profiles []types.Profile
	for _, c := range chunks(len(sorted)) {
		part := sorted[c[0]:c[1]]
		args := make([]any, len(part))
		for i, id := range part {
			args[i] = id
		}
		batch, err := s.queryProfiles(ctx,
			`SELECT `+profileColumns+` FROM profiles WHERE id IN (`+placeholders(len(part))+`) ORDER BY id`,
			args...)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, batch...)
	}
	if err := s.loadKeywords(ctx, profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// FieldIndex snapshots the distinct lower-cased name and organizational
// values of all profiles.
func (s *Store) FieldIndex(ctx context.Context) (types.FieldIndex, error) {
	idx := types.FieldIndex{
		FirstNames:  map[string]bool{},
		LastNames:   map[string]bool{},
		Departments: map[string]bool{},
		Faculties:   map[string]bool{},
		Campuses:    map[string]bool{},
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT first_name, last_name, department, faculty, campus FROM profiles`)
	if err != nil {
		return types.FieldIndex{}, fmt.Errorf("querying field index: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var first, last, dept, faculty, campus string
		if err := rows.Scan(&first, &last, &dept, &faculty, &campus); err != nil {
			return types.FieldIndex{}, fmt.Errorf("scanning field index: %w", err)
		}
		addField(idx.FirstNames, first)
		addField(idx.LastNames, last)
		addField(idx.Departments, dept)
		addField(idx.Faculties, faculty)
		addField(idx.Campuses, campus)
	}
	if err := rows.Err(); err != nil {
		return types.FieldIndex{}, fmt.Errorf("iterating field index: %w", err)
	}
	return idx, nil
}

func addField(set map[string]bool, v string) {
	if v = normalizeKeyword(v); v != "" {
		set[v] = true
	}
}

// GetPublication returns a stored publication with its authors in source
// order.
func (s *Store) GetPublication(ctx context.Context, id int64) (types.Publication, error) {
	var pub types.Publication
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, abstract, date FROM publications WHERE id = ?`, id,
	).Scan(&pub.ID, &pub.Title, &pub.Abstract, &pub.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Publication{}, fmt.Errorf("publication %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Publication{}, fmt.Errorf("reading publication %d: %w", id, err)
	}

	authors, err := s.publicationAuthors(ctx, id)
	if err != nil {
		return types.Publication{}, err
	}
	pub.Authors = authors
	return pub, nil
}

// ListPublications returns a page of publications ordered by ID, with
// authors, and the total number of publications.
func (s *Store) ListPublications(ctx context.Context, opts ListOptions) ([]types.Publication, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.pageSize
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM publications`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting publications: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, abstract, date FROM publications ORDER BY id LIMIT ? OFFSET ?`,
		limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying publications: %w", err)
	}
	var pubs []types.Publication
	for rows.Next() {
		var pub types.Publication
		if err := rows.Scan(&pub.ID, &pub.Title, &pub.Abstract, &pub.Date); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scanning publication: %w", err)
		}
		pubs = append(pubs, pub)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("iterating publications: %w", err)
	}

	for i := range pubs {
		authors, err := s.publicationAuthors(ctx, pubs[i].ID)
		if err != nil {
			return nil, 0, err
		}
		pubs[i].Authors = authors
	}
	return pubs, total, nil
}

func (s *Store) publicationAuthors(ctx context.Context, pubID int64) ([]types.AuthorRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.title, p.first_name, p.last_name, p.initials, p.alias,
			p.email, p.faculty, p.department, p.campus, p.building, p.room, p.website
		FROM authorships a JOIN profiles p ON p.id = a.profile_id
		WHERE a.publication_id = ?
		ORDER BY a.position`, pubID)
	if err != nil {
		return nil, fmt.Errorf("querying authors of publication %d: %w", pubID, err)
	}
	defer rows.Close()

	var authors []types.AuthorRecord
	for rows.Next() {
		var a types.AuthorRecord
		n := &a.Name
		if err := rows.Scan(&n.Title, &n.First, &n.Last, &n.Initials, &n.Alias,
			&a.Email, &a.Faculty, &a.Department, &a.Campus, &a.Building, &a.Room, &a.Website); err != nil {
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *Store) publicationRefs(ctx context.Context, profileID int64) ([]types.PublicationRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pub.id, pub.title, pub.date
		FROM authorships a JOIN publications pub ON pub.id = a.publication_id
		WHERE a.profile_id = ?
		ORDER BY pub.year, pub.date, pub.id`, profileID)
	if err != nil {
		return nil, fmt.Errorf("querying publications of profile %d: %w", profileID, err)
	}
	defer rows.Close()

	var refs []types.PublicationRef
	for rows.Next() {
		var r types.PublicationRef
		if err := rows.Scan(&r.ID, &r.Title, &r.Date); err != nil {
			return nil, fmt.Errorf("scanning publication ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// queryProfiles runs a profile SELECT and closes its rows before returning,
// so callers may issue further queries on the single connection.
func (s *Store) queryProfiles(ctx context.Context, query string, args ...any) ([]types.Profile, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	var profiles []types.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}
	return profiles, nil
}

// loadKeywords fills the keyword mapping of each profile in place.
func (s *Store) loadKeywords(ctx context.Context, profiles []types.Profile) error {
	if len(profiles) == 0 {
		return nil
	}
	byID := make(map[int64]int, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = i
		if profiles[i].Keywords == nil {
			profiles[i].Keywords = map[string]float64{}
		}
	}

	for _, c := range chunks(len(profiles)) {
		args := make([]any, 0, c[1]-c[0])
		for _, p := range profiles[c[0]:c[1]] {
			args = append(args, p.ID)
		}
		rows, err := s.db.QueryContext(ctx,
			`SELECT profile_id, keyword, weight FROM keywords WHERE profile_id IN (`+placeholders(len(args))+`)`,
			args...)
		if err != nil {
			return fmt.Errorf("querying keywords: %w", err)
		}
		for rows.Next() {
			var (
				id      int64
				keyword string
				weight  float64
			)
			if err := rows.Scan(&id, &keyword, &weight); err != nil {
				rows.Close()
				return fmt.Errorf("scanning keyword: %w", err)
			}
			profiles[byID[id]].Keywords[keyword] = weight
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("iterating keywords: %w", err)
		}
	}
	return nil
}

func normalizeKeyword(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func dedupe(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
