// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"fmt"
)

// SetKeyword sets the weight of one keyword on a profile, replacing any
// accumulated weight.
func (s *Store) SetKeyword(ctx context.Context, profileID int64, keyword string, weight float64) error {
	keyword = normalizeKeyword(keyword)
	if keyword == "" {
		return fmt.Errorf("keyword is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireProfile(ctx, tx, profileID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO keywords (profile_id, keyword, weight) VALUES (?, ?, ?)
		 ON CONFLICT(profile_id, keyword) DO UPDATE SET weight = excluded.weight`,
		profileID, keyword, weight,
	); err != nil {
		return fmt.Errorf("setting keyword %q on profile %d: %w", keyword, profileID, err)
	}
	return tx.Commit()
}

// RemoveKeywords deletes keywords from one profile and returns how many
// were present.
func (s *Store) RemoveKeywords(ctx context.Context, profileID int64, keywords ...string) (int64, error) {
	keywords = normalizeAll(keywords)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireProfile(ctx, tx, profileID); err != nil {
		return 0, err
	}

	var total int64
	for _, c := range chunks(len(keywords)) {
		part := keywords[c[0]:c[1]]
		args := make([]any, 0, len(part)+1)
		args = append(args, profileID)
		for _, k := range part {
			args = append(args, k)
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM keywords WHERE profile_id = ? AND keyword IN (`+placeholders(len(part))+`)`,
			args...)
		if err != nil {
			return 0, fmt.Errorf("removing keywords from profile %d: %w", profileID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting removed keywords: %w", err)
		}
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing keyword removal: %w", err)
	}
	return total, nil
}

// DeleteKeywords removes keywords from every profile, for phrases that are
// not meaningful expertise. It returns the number of mappings removed.
func (s *Store) DeleteKeywords(ctx context.Context, keywords ...string) (int64, error) {
	keywords = normalizeAll(keywords)
	if len(keywords) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var total int64
	for _, c := range chunks(len(keywords)) {
		part := keywords[c[0]:c[1]]
		args := make([]any, len(part))
		for i, k := range part {
			args[i] = k
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM keywords WHERE keyword IN (`+placeholders(len(part))+`)`, args...)
		if err != nil {
			return 0, fmt.Errorf("deleting keywords: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting deleted keywords: %w", err)
		}
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing keyword deletion: %w", err)
	}
	return total, nil
}

func normalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		out = append(out, normalizeKeyword(k))
	}
	return dedupe(out)
}
