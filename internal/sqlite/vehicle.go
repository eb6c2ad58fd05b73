package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/rpggio/recontrack/internal/repository"
)

const vehicleColumns = `
	stock_number, vin, year, make, model, color, detailer_id, detailer, notes,
	status, date_in, date_out, workflow, created_at, updated_at`

// VehicleRepository implements vehicle.Repository for SQLite
type VehicleRepository struct {
	db *DB
}

// NewVehicleRepository creates a new VehicleRepository
func NewVehicleRepository(db *DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a vehicle. A taken stock number returns repository.ErrConflict.
func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	wf, err := encodeWorkflow(v.Workflow)
	if err != nil {
		return err
	}

	query := `INSERT INTO vehicles (` + vehicleColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		v.StockNumber,
		nullString(v.VIN),
		v.Year,
		v.Make,
		v.Model,
		v.Color,
		nullString(v.DetailerID),
		v.Detailer,
		v.Notes,
		string(v.Status),
		formatTime(v.DateIn),
		nullTime(v.DateOut),
		wf,
		formatTime(v.CreatedAt),
		formatTime(v.UpdatedAt),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return repository.ErrConflict
		case isForeignKeyViolation(err):
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// Get retrieves a vehicle by stock number, ignoring case
func (r *VehicleRepository) Get(ctx context.Context, stockNumber string) (*vehicle.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE stock_number = ?`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, stockNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Update overwrites every column of an existing vehicle
func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	wf, err := encodeWorkflow(v.Workflow)
	if err != nil {
		return err
	}

	query := `
		UPDATE vehicles SET
			vin = ?, year = ?, make = ?, model = ?, color = ?,
			detailer_id = ?, detailer = ?, notes = ?, status = ?,
			date_in = ?, date_out = ?, workflow = ?, updated_at = ?
		WHERE stock_number = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		nullString(v.VIN),
		v.Year,
		v.Make,
		v.Model,
		v.Color,
		nullString(v.DetailerID),
		v.Detailer,
		v.Notes,
		string(v.Status),
		formatTime(v.DateIn),
		nullTime(v.DateOut),
		wf,
		formatTime(v.UpdatedAt),
		v.StockNumber,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update vehicle: %w", err)
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

// Delete removes a vehicle; its timeline goes with it
func (r *VehicleRepository) Delete(ctx context.Context, stockNumber string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM vehicles WHERE stock_number = ?", stockNumber)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
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

// List returns vehicles matching the filters, oldest intake first
func (r *VehicleRepository) List(ctx context.Context, opts vehicle.ListOptions) ([]vehicle.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`

	var args []any
	var conditions []string

	if len(opts.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", placeholders(len(opts.Statuses))))
		for _, status := range opts.Statuses {
			args = append(args, string(status))
		}
	}
	if opts.InReconOnly {
		conditions = append(conditions, "status NOT IN (?, ?)")
		args = append(args, string(workflow.StageLotReady), string(workflow.StageSold))
	}
	if opts.Detailer != "" {
		conditions = append(conditions, "detailer = ? COLLATE NOCASE")
		args = append(args, opts.Detailer)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date_in, stock_number"

	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []vehicle.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicle rows: %w", err)
	}
	return vehicles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*vehicle.Vehicle, error) {
	var (
		v          vehicle.Vehicle
		vin        sql.NullString
		detailerID sql.NullString
		status     string
		dateIn     string
		dateOut    sql.NullString
		wf         sql.NullString
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(
		&v.StockNumber,
		&vin,
		&v.Year,
		&v.Make,
		&v.Model,
		&v.Color,
		&detailerID,
		&v.Detailer,
		&v.Notes,
		&status,
		&dateIn,
		&dateOut,
		&wf,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan vehicle: %w", err)
	}

	v.VIN = vin.String
	v.DetailerID = detailerID.String
	v.Status = workflow.Stage(status)

	if v.DateIn, err = parseTime(dateIn); err != nil {
		return nil, fmt.Errorf("vehicle %s: bad date_in: %w", v.StockNumber, err)
	}
	if dateOut.Valid {
		out, err := parseTime(dateOut.String)
		if err != nil {
			return nil, fmt.Errorf("vehicle %s: bad date_out: %w", v.StockNumber, err)
		}
		v.DateOut = &out
	}
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("vehicle %s: bad created_at: %w", v.StockNumber, err)
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("vehicle %s: bad updated_at: %w", v.StockNumber, err)
	}

	if wf.Valid && strings.TrimSpace(wf.String) != "" {
		rec := &workflow.Record{}
		if err := json.Unmarshal([]byte(wf.String), rec); err != nil {
			return nil, fmt.Errorf("vehicle %s: %w", v.StockNumber, err)
		}
		v.Workflow = rec
	}

	return &v, nil
}

func encodeWorkflow(rec *workflow.Record) (sql.NullString, error) {
	if rec == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode workflow: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}
