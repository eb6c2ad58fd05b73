package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/repository"
)

// DetailerRepository implements detailer.Repository for SQLite
type DetailerRepository struct {
	db *DB
}

// NewDetailerRepository creates a new DetailerRepository
func NewDetailerRepository(db *DB) *DetailerRepository {
	return &DetailerRepository{db: db}
}

// Create inserts a detailer. Names are unique ignoring case.
func (r *DetailerRepository) Create(ctx context.Context, d *detailer.Detailer) error {
	query := `
		INSERT INTO detailers (id, name, email, phone, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.Name,
		nullString(d.Email),
		nullString(d.Phone),
		d.Active,
		formatTime(d.CreatedAt),
		formatTime(d.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create detailer: %w", err)
	}
	return nil
}

// Get retrieves a detailer by ID
func (r *DetailerRepository) Get(ctx context.Context, id string) (*detailer.Detailer, error) {
	query := `
		SELECT id, name, email, phone, active, created_at, updated_at
		FROM detailers WHERE id = ?
	`
	d, err := scanDetailer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// Update overwrites a detailer
func (r *DetailerRepository) Update(ctx context.Context, d *detailer.Detailer) error {
	query := `
		UPDATE detailers SET name = ?, email = ?, phone = ?, active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		d.Name,
		nullString(d.Email),
		nullString(d.Phone),
		d.Active,
		formatTime(d.UpdatedAt),
		d.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update detailer: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns detailers ordered by name
func (r *DetailerRepository) List(ctx context.Context, activeOnly bool) ([]detailer.Detailer, error) {
	query := `SELECT id, name, email, phone, active, created_at, updated_at FROM detailers`
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name COLLATE NOCASE"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list detailers: %w", err)
	}
	defer rows.Close()

	list := []detailer.Detailer{}
	for rows.Next() {
		d, err := scanDetailer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detailer rows: %w", err)
	}
	return list, nil
}

func scanDetailer(row rowScanner) (*detailer.Detailer, error) {
	var (
		d         detailer.Detailer
		email     sql.NullString
		phone     sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&d.ID, &d.Name, &email, &phone, &d.Active, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan detailer: %w", err)
	}
	d.Email = email.String
	d.Phone = phone.String

	var err error
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("detailer %s: bad created_at: %w", d.ID, err)
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("detailer %s: bad updated_at: %w", d.ID, err)
	}
	return &d, nil
}
