// Package report summarizes where inventory sits in the reconditioning
// pipeline and which stage is holding it up.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
)

// StageSummary is the inventory sitting in one status.
type StageSummary struct {
	Stage      workflow.Stage `json:"stage"`
	Count      int            `json:"count"`
	AverageAge float64        `json:"average_age_days"`
}

// StaleVehicle is a vehicle that has been in reconditioning too long.
type StaleVehicle struct {
	StockNumber string         `json:"stock_number"`
	Description string         `json:"description"`
	Status      workflow.Stage `json:"status"`
	Detailer    string         `json:"detailer,omitempty"`
	AgeDays     int            `json:"age_days"`
}

// Report is a point-in-time view of the pipeline.
type Report struct {
	GeneratedAt        time.Time      `json:"generated_at"`
	Total              int            `json:"total"`
	InRecon            int            `json:"in_recon"`
	AverageDaysInRecon float64        `json:"average_days_in_recon"`
	Stages             []StageSummary `json:"stages"`
	Bottleneck         workflow.Stage `json:"bottleneck"`
	StaleAfterDays     int            `json:"stale_after_days"`
	Stale              []StaleVehicle `json:"stale"`
}

// Build computes the report. Every stage appears in pipeline order, even
// when empty. The bottleneck is the in-recon stage holding the most vehicles,
// ties going to the higher average age; it is empty when nothing is in recon.
func Build(vehicles []vehicle.Vehicle, now time.Time, staleAfterDays int) Report {
	stages := workflow.Stages()
	counts := make(map[workflow.Stage]int, len(stages))
	ageTotals := make(map[workflow.Stage]int, len(stages))

	rep := Report{
		GeneratedAt:    now,
		Total:          len(vehicles),
		StaleAfterDays: staleAfterDays,
		Stages:         make([]StageSummary, 0, len(stages)),
		Stale:          []StaleVehicle{},
	}

	reconAgeTotal := 0
	for i := range vehicles {
		v := &vehicles[i]
		status := v.Status
		if v.Workflow != nil {
			status = workflow.DeriveStatus(v.Workflow)
		}
		if !status.Valid() {
			continue
		}
		age := vehicle.Age(v, now)
		counts[status]++
		ageTotals[status] += age

		if !status.InRecon() {
			continue
		}
		rep.InRecon++
		reconAgeTotal += age
		if staleAfterDays > 0 && age > staleAfterDays {
			rep.Stale = append(rep.Stale, StaleVehicle{
				StockNumber: v.StockNumber,
				Description: v.Description(),
				Status:      status,
				Detailer:    v.Detailer,
				AgeDays:     age,
			})
		}
	}

	for _, stage := range stages {
		summary := StageSummary{Stage: stage, Count: counts[stage]}
		if summary.Count > 0 {
			summary.AverageAge = round1(float64(ageTotals[stage]) / float64(summary.Count))
		}
		rep.Stages = append(rep.Stages, summary)

		if !stage.InRecon() || summary.Count == 0 {
			continue
		}
		if rep.Bottleneck == "" {
			rep.Bottleneck = stage
			continue
		}
		best := rep.Stages[rep.Bottleneck.Index()]
		if summary.Count > best.Count || (summary.Count == best.Count && summary.AverageAge > best.AverageAge) {
			rep.Bottleneck = stage
		}
	}

	if rep.InRecon > 0 {
		rep.AverageDaysInRecon = round1(float64(reconAgeTotal) / float64(rep.InRecon))
	}

	sort.SliceStable(rep.Stale, func(i, j int) bool {
		return rep.Stale[i].AgeDays > rep.Stale[j].AgeDays
	})

	return rep
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Lister is the slice of the vehicle service the report reads from.
type Lister interface {
	List(ctx context.Context, opts vehicle.ListOptions) ([]vehicle.Vehicle, error)
}

// Service produces reports over the current inventory.
type Service struct {
	vehicles       Lister
	now            workflow.Clock
	staleAfterDays int
	logger         *slog.Logger
}

// NewService creates a report service. A nil clock uses workflow.SystemClock.
func NewService(vehicles Lister, now workflow.Clock, staleAfterDays int, logger *slog.Logger) *Service {
	if now == nil {
		now = workflow.SystemClock
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{vehicles: vehicles, now: now, staleAfterDays: staleAfterDays, logger: logger}
}

// Generate builds a report over every vehicle in inventory.
func (s *Service) Generate(ctx context.Context) (Report, error) {
	list, err := s.vehicles.List(ctx, vehicle.ListOptions{})
	if err != nil {
		return Report{}, fmt.Errorf("loading inventory: %w", err)
	}
	rep := Build(list, s.now(), s.staleAfterDays)
	s.logger.Debug("report generated", "total", rep.Total, "in_recon", rep.InRecon, "bottleneck", rep.Bottleneck)
	return rep, nil
}
