package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/recontrack/internal/domain/vehicle"
)

// SearchRepository implements vehicle.SearchRepository for SQLite
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search performs a prefix full-text search over stock number, VIN, make,
// model, color and notes. Every term must match.
func (r *SearchRepository) Search(ctx context.Context, query string, opts vehicle.SearchOptions) ([]vehicle.SearchResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return []vehicle.SearchResult{}, nil
	}

	baseQuery := `
		SELECT ` + qualified(vehicleColumns, "v") + `,
			bm25(vehicles_fts) AS score,
			snippet(vehicles_fts, -1, '[', ']', '...', 8) AS excerpt
		FROM vehicles_fts
		JOIN vehicles v ON v.rowid = vehicles_fts.rowid
		WHERE vehicles_fts MATCH ?
	`
	args := []any{match}

	if len(opts.Statuses) > 0 {
		baseQuery += fmt.Sprintf(" AND v.status IN (%s)", placeholders(len(opts.Statuses)))
		for _, status := range opts.Statuses {
			args = append(args, string(status))
		}
	}

	baseQuery += " ORDER BY score"

	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1
		}
		baseQuery += " LIMIT ? OFFSET ?"
		args = append(args, limit, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}
	defer rows.Close()

	results := []vehicle.SearchResult{}
	for rows.Next() {
		var rank float64
		var snippet string
		v, err := scanVehicle(scanFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &rank, &snippet)...)
		}))
		if err != nil {
			return nil, err
		}
		results = append(results, vehicle.SearchResult{Vehicle: *v, Rank: rank, Snippet: snippet})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}

func qualified(columns, alias string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

// ftsQuery turns free text into an FTS5 expression of quoted prefix terms,
// so input like "A-1234" or "f-150" is never parsed as FTS syntax.
func ftsQuery(input string) string {
	terms := strings.Fields(input)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, "")
		if term == "" {
			continue
		}
		quoted = append(quoted, `"`+term+`"*`)
	}
	return strings.Join(quoted, " ")
}
