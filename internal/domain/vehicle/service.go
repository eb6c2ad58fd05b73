package vehicle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/rpggio/recontrack/internal/repository"
)

// Service owns the vehicle collection and applies workflow actions to one
// vehicle at a time: load, mutate through the engine, refresh status, persist,
// then log to the timeline.
type Service struct {
	vehicles   Repository
	activities ActivityRepository
	detailers  DetailerRepository
	search     SearchRepository
	engine     *workflow.Engine
	logger     *slog.Logger
}

// NewService creates a new vehicle service. A nil engine uses the system clock.
func NewService(
	vehicles Repository,
	activities ActivityRepository,
	detailers DetailerRepository,
	search SearchRepository,
	engine *workflow.Engine,
	logger *slog.Logger,
) *Service {
	if engine == nil {
		engine = workflow.NewEngine(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		vehicles:   vehicles,
		activities: activities,
		detailers:  detailers,
		search:     search,
		engine:     engine,
		logger:     logger,
	}
}

// IntakeRequest describes a vehicle arriving at the lot.
type IntakeRequest struct {
	StockNumber string
	VIN         string
	Year        int
	Make        string
	Model       string
	Color       string
	Detailer    string
	Notes       string
	DateIn      *time.Time
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.engine.Now()
}

// Intake adds a vehicle to inventory with a fresh workflow dated to its intake.
func (s *Service) Intake(ctx context.Context, req IntakeRequest) (*Vehicle, error) {
	now := s.engine.Now()
	if err := ValidateIntake(req, now); err != nil {
		return nil, err
	}

	dateIn := now
	if req.DateIn != nil {
		dateIn = req.DateIn.UTC()
	}

	v := &Vehicle{
		StockNumber: strings.TrimSpace(req.StockNumber),
		VIN:         strings.ToUpper(strings.TrimSpace(req.VIN)),
		Year:        req.Year,
		Make:        normalizeName(req.Make),
		Model:       normalizeName(req.Model),
		Color:       normalizeName(req.Color),
		Detailer:    strings.TrimSpace(req.Detailer),
		Notes:       strings.TrimSpace(req.Notes),
		DateIn:      dateIn,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.engine.GetOrInit(v)
	s.engine.Refresh(v)

	if err := s.vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateStockNumber
		}
		return nil, fmt.Errorf("creating vehicle: %w", err)
	}

	s.logger.Info("vehicle intake", "stock_number", v.StockNumber, "status", v.Status)
	s.logActivity(ctx, v.StockNumber, activity.TypeIntake,
		fmt.Sprintf("Vehicle received at lot: %s", v.Description()), nil)

	return v, nil
}

// Get returns a vehicle with its workflow initialized.
func (s *Service) Get(ctx context.Context, stockNumber string) (*Vehicle, error) {
	v, err := s.load(ctx, stockNumber)
	if err != nil {
		return nil, err
	}
	s.engine.Refresh(v)
	return v, nil
}

// List returns vehicles matching opts, ordered by intake date.
//
// Status filters apply to the status derived from each workflow, not to the
// stored status column, so rows with an out-of-date cache still land in the
// right bucket. Paging happens after filtering.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Vehicle, error) {
	want, err := statusSet(opts.Statuses)
	if err != nil {
		return nil, err
	}
	list, err := s.vehicles.List(ctx, ListOptions{Detailer: opts.Detailer})
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}

	out := make([]Vehicle, 0, len(list))
	for i := range list {
		status := s.engine.Refresh(&list[i])
		if !matchesStatus(status, want, opts.InReconOnly) {
			continue
		}
		out = append(out, list[i])
	}
	return page(out, opts.Offset, opts.Limit), nil
}

// Search runs full-text search over stock number, VIN, description and notes.
// As with List, status filters use the derived status.
func (s *Service) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	if s.search == nil {
		return nil, fmt.Errorf("search repository not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	want, err := statusSet(opts.Statuses)
	if err != nil {
		return nil, err
	}
	results, err := s.search.Search(ctx, query, SearchOptions{})
	if err != nil {
		return nil, fmt.Errorf("searching vehicles: %w", err)
	}

	out := make([]SearchResult, 0, len(results))
	for i := range results {
		status := s.engine.Refresh(&results[i].Vehicle)
		if !matchesStatus(status, want, false) {
			continue
		}
		out = append(out, results[i])
	}
	return page(out, opts.Offset, opts.Limit), nil
}

func statusSet(statuses []workflow.Stage) (map[workflow.Stage]bool, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	set := make(map[workflow.Stage]bool, len(statuses))
	for _, status := range statuses {
		if !status.Valid() {
			return nil, &workflow.InvalidStageError{Value: string(status)}
		}
		set[status] = true
	}
	return set, nil
}

func matchesStatus(status workflow.Stage, want map[workflow.Stage]bool, inReconOnly bool) bool {
	if want != nil && !want[status] {
		return false
	}
	return !inReconOnly || status.InRecon()
}

func page[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Delete removes a vehicle together with its workflow and timeline.
func (s *Service) Delete(ctx context.Context, stockNumber string) error {
	if err := s.vehicles.Delete(ctx, stockNumber); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVehicleNotFound
		}
		return fmt.Errorf("deleting vehicle: %w", err)
	}
	s.logger.Info("vehicle deleted", "stock_number", stockNumber)
	return nil
}

// SetStage marks a stage complete or incomplete. Completing Sold also stamps
// the vehicle's date out if it has none. The timeline only records a
// completion or revert when the stage actually changed; a repeat call that
// only carries notes is logged as a notes update, and one without notes
// changes nothing.
func (s *Service) SetStage(ctx context.Context, stockNumber string, stage workflow.Stage, completed bool, notes *string) (*Vehicle, error) {
	return s.mutate(ctx, stockNumber, func(v *Vehicle, rec *workflow.Record) (activity.ActivityType, string, error) {
		wasCompleted := rec.IsCompleted(stage)
		if err := s.engine.SetStageCompletion(rec, stage, completed, notes); err != nil {
			return "", "", err
		}

		stamped := false
		if stage == workflow.StageSold && completed && v.DateOut == nil {
			v.SetDateOut(s.engine.Now())
			stamped = true
		}

		switch {
		case completed && !wasCompleted:
			if stage == workflow.StageSold {
				return activity.TypeSold, "Vehicle sold", nil
			}
			return activity.TypeStageCompleted, fmt.Sprintf("%s completed", stage), nil
		case !completed && wasCompleted:
			if !rec.IsCompleted(workflow.StageLotReady) && !rec.IsCompleted(workflow.StageSold) {
				v.DateOut = nil
			}
			return activity.TypeStageReverted, fmt.Sprintf("%s reverted", stage), nil
		case notes != nil:
			return activity.TypeNotesUpdated, fmt.Sprintf("%s notes updated", stage), nil
		case stamped:
			return activity.TypeSold, "Sale date recorded", nil
		}
		return "", "", nil
	})
}

// SetSubStep marks a Mechanical sub-step. Mechanical completes or reopens
// with it.
func (s *Service) SetSubStep(ctx context.Context, stockNumber string, id workflow.SubStep, completed bool, notes *string) (*Vehicle, error) {
	return s.mutate(ctx, stockNumber, func(_ *Vehicle, rec *workflow.Record) (activity.ActivityType, string, error) {
		if err := s.engine.SetSubStepCompletion(rec, id, completed, notes); err != nil {
			return "", "", err
		}
		if completed {
			return activity.TypeSubStepCompleted, fmt.Sprintf("%s completed", id.Label()), nil
		}
		return activity.TypeSubStepReverted, fmt.Sprintf("%s reverted", id.Label()), nil
	})
}

// SetTitleInHouse records whether the title document is on hand.
func (s *Service) SetTitleInHouse(ctx context.Context, stockNumber string, inHouse bool) (*Vehicle, error) {
	return s.mutate(ctx, stockNumber, func(_ *Vehicle, rec *workflow.Record) (activity.ActivityType, string, error) {
		if err := s.engine.SetTitleInHouse(rec, inHouse); err != nil {
			return "", "", err
		}
		if inHouse {
			return activity.TypeTitleInHouse, "Title received in-house", nil
		}
		return activity.TypeTitleOut, "Title marked not in-house", nil
	})
}

// AdvanceToLotReady performs the gated move to Lot Ready. An unmet gate
// returns a *workflow.IneligibleError and nothing is saved.
func (s *Service) AdvanceToLotReady(ctx context.Context, stockNumber string) (*Vehicle, error) {
	return s.mutate(ctx, stockNumber, func(v *Vehicle, rec *workflow.Record) (activity.ActivityType, string, error) {
		if rec.IsCompleted(workflow.StageLotReady) {
			return "", "", nil
		}
		if err := s.engine.AdvanceToLotReady(v, rec); err != nil {
			return "", "", err
		}
		return activity.TypeLotReady, "Moved to lot ready - all requirements met", nil
	})
}

// MarkSold completes the Sold stage.
func (s *Service) MarkSold(ctx context.Context, stockNumber string, notes *string) (*Vehicle, error) {
	return s.SetStage(ctx, stockNumber, workflow.StageSold, true, notes)
}

// CheckLotReady reports the Lot Ready gate for a vehicle without changing it.
func (s *Service) CheckLotReady(ctx context.Context, stockNumber string) (workflow.Eligibility, error) {
	v, err := s.load(ctx, stockNumber)
	if err != nil {
		return workflow.Eligibility{}, err
	}
	return workflow.IsEligibleForLotReady(s.engine.GetOrInit(v)), nil
}

// UpdateNotes replaces the vehicle's free-text notes.
func (s *Service) UpdateNotes(ctx context.Context, stockNumber, notes string) (*Vehicle, error) {
	return s.mutate(ctx, stockNumber, func(v *Vehicle, _ *workflow.Record) (activity.ActivityType, string, error) {
		v.Notes = strings.TrimSpace(notes)
		return activity.TypeNotesUpdated, "Notes updated", nil
	})
}

// AssignDetailer assigns an active detailer from the roster. An empty ID
// clears the assignment.
func (s *Service) AssignDetailer(ctx context.Context, stockNumber, detailerID string) (*Vehicle, error) {
	var assigned *detailer.Detailer
	if detailerID != "" {
		if s.detailers == nil {
			return nil, fmt.Errorf("detailer repository not configured")
		}
		d, err := s.detailers.Get(ctx, detailerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, detailer.ErrDetailerNotFound
			}
			return nil, fmt.Errorf("loading detailer: %w", err)
		}
		if !d.Active {
			return nil, detailer.ErrInactive
		}
		assigned = d
	}

	return s.mutate(ctx, stockNumber, func(v *Vehicle, _ *workflow.Record) (activity.ActivityType, string, error) {
		if assigned == nil {
			v.DetailerID = ""
			v.Detailer = ""
			return activity.TypeDetailerAssigned, "Detailer unassigned", nil
		}
		v.DetailerID = assigned.ID
		v.Detailer = assigned.Name
		return activity.TypeDetailerAssigned, fmt.Sprintf("Assigned to %s", assigned.Name), nil
	})
}

// Timeline returns the vehicle's activity, newest first.
func (s *Service) Timeline(ctx context.Context, stockNumber string, limit int) ([]activity.Entry, error) {
	if _, err := s.load(ctx, stockNumber); err != nil {
		return nil, err
	}
	if s.activities == nil {
		return []activity.Entry{}, nil
	}
	entries, err := s.activities.List(ctx, activity.ListOptions{StockNumber: stockNumber, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("listing timeline: %w", err)
	}
	return entries, nil
}

type mutation func(v *Vehicle, rec *workflow.Record) (activity.ActivityType, string, error)

func (s *Service) mutate(ctx context.Context, stockNumber string, apply mutation) (*Vehicle, error) {
	v, err := s.load(ctx, stockNumber)
	if err != nil {
		return nil, err
	}
	rec := s.engine.GetOrInit(v)
	previous := workflow.DeriveStatus(rec)

	activityType, summary, err := apply(v, rec)
	if err != nil {
		return nil, err
	}
	if activityType == "" {
		s.engine.Refresh(v)
		return v, nil
	}

	status := s.engine.Refresh(v)
	v.UpdatedAt = s.engine.Now()

	if err := s.vehicles.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("updating vehicle: %w", err)
	}

	s.logger.Info("workflow updated", "stock_number", v.StockNumber, "action", activityType, "status", status)
	s.logActivity(ctx, v.StockNumber, activityType, summary, nil)
	if status != previous {
		s.logActivity(ctx, v.StockNumber, activity.TypeStatusChanged,
			fmt.Sprintf("Status changed from %s to %s", previous, status),
			map[string]string{"from": string(previous), "to": string(status)})
	}
	return v, nil
}

func (s *Service) load(ctx context.Context, stockNumber string) (*Vehicle, error) {
	if strings.TrimSpace(stockNumber) == "" {
		return nil, fmt.Errorf("%w: stock number is required", ErrInvalidInput)
	}
	v, err := s.vehicles.Get(ctx, stockNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("loading vehicle: %w", err)
	}
	return v, nil
}

func (s *Service) logActivity(ctx context.Context, stockNumber string, typ activity.ActivityType, summary string, details any) {
	if s.activities == nil {
		return
	}
	entry := &activity.Entry{
		StockNumber:  stockNumber,
		ActivityType: typ,
		Summary:      summary,
		BatchID:      activity.BatchFromContext(ctx),
		CreatedAt:    s.engine.Now(),
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "stock_number", stockNumber, "type", typ, "error", err)
	}
}
