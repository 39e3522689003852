// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/martyrology/pkg/types"
)

// QueryOptions holds parameters for pair searches.
type QueryOptions struct {
	// Query is matched as a substring of either side of a pair.
	Query string

	// Month restricts results to one month (1-12). Zero means all months.
	Month int

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// QueryResult is a matching pair with the day it belongs to.
type QueryResult struct {
	Path     string `json:"path" yaml:"path"`
	Month    int    `json:"month" yaml:"month"`
	Heading  string `json:"heading" yaml:"heading"`
	Position int    `json:"position" yaml:"position"`
	Latin    string `json:"latin" yaml:"latin"`
	English  string `json:"english" yaml:"english"`
}

// likeEscaper escapes LIKE wildcards; '!' is the ESCAPE character because
// the stored text is full of LaTeX backslashes.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search returns pairs whose Latin or English text contains opts.Query,
// ordered by day path and position.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT p.day_path, d.month, d.heading, p.position, p.latin, p.english
		FROM pairs p JOIN days d ON d.path = p.day_path WHERE 1=1`)

	if opts.Query != "" {
		pattern := "%" + likeEscaper.Replace(opts.Query) + "%"
		qb.WriteString(` AND (p.latin LIKE ? ESCAPE '!' OR p.english LIKE ? ESCAPE '!')`)
		args = append(args, pattern, pattern)
	}
	if opts.Month != 0 {
		qb.WriteString(` AND d.month = ?`)
		args = append(args, opts.Month)
	}
	qb.WriteString(` ORDER BY p.day_path, p.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching pairs: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		if err := rows.Scan(&r.Path, &r.Month, &r.Heading, &r.Position, &r.Latin, &r.English); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Days loads the stored days, optionally for a single month, in path order.
func (s *Store) Days(ctx context.Context, month int) ([]types.Day, error) {
	query := `SELECT path, heading, preface_latin, preface_english, letter_grids FROM days`
	var args []any
	if month != 0 {
		query += ` WHERE month = ?`
		args = append(args, month)
	}
	query += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying days: %w", err)
	}
	defer rows.Close()

	var days []types.Day
	for rows.Next() {
		var (
			d     types.Day
			grids sql.NullString
		)
		if err := rows.Scan(&d.Path, &d.Heading, &d.PrefaceLatin, &d.PrefaceEnglish, &grids); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		if grids.Valid && grids.String != "" {
			if err := json.Unmarshal([]byte(grids.String), &d.LetterGrids); err != nil {
				return nil, fmt.Errorf("decoding letter grids of %s: %w", d.Path, err)
			}
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range days {
		pairs, err := s.pairs(ctx, days[i].Path)
		if err != nil {
			return nil, err
		}
		days[i].Pairs = pairs
	}
	return days, nil
}

func (s *Store) pairs(ctx context.Context, path string) ([]types.Pair, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT latin, english FROM pairs WHERE day_path = ? ORDER BY position`, path)
	if err != nil {
		return nil, fmt.Errorf("querying pairs of %s: %w", path, err)
	}
	defer rows.Close()

	pairs := []types.Pair{}
	for rows.Next() {
		var p types.Pair
		if err := rows.Scan(&p.Latin, &p.English); err != nil {
			return nil, fmt.Errorf("scanning pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
