// Package app wires repositories and services over one database.
package app

import (
	"log/slog"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/rpggio/recontrack/internal/mcp"
	"github.com/rpggio/recontrack/internal/report"
	"github.com/rpggio/recontrack/internal/sqlite"
	"github.com/rpggio/recontrack/internal/transport"
)

// Options tune the wiring. Zero values use the system clock and a 7 day
// stale threshold.
type Options struct {
	Clock          workflow.Clock
	StaleAfterDays int
	Logger         *slog.Logger
}

// Services holds every domain service.
type Services struct {
	Vehicles  *vehicle.Service
	Detailers *detailer.Service
	Activity  *activity.Service
	Reports   *report.Service
}

// New builds the services on top of db.
func New(db *sqlite.DB, opts Options) *Services {
	if opts.StaleAfterDays == 0 {
		opts.StaleAfterDays = 7
	}

	vehicleRepo := sqlite.NewVehicleRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	detailerRepo := sqlite.NewDetailerRepository(db)
	searchRepo := sqlite.NewSearchRepository(db)

	engine := workflow.NewEngine(opts.Clock)
	vehicles := vehicle.NewService(vehicleRepo, activityRepo, detailerRepo, searchRepo, engine, opts.Logger)

	return &Services{
		Vehicles:  vehicles,
		Detailers: detailer.NewService(detailerRepo, opts.Logger),
		Activity:  activity.NewService(activityRepo, opts.Logger),
		Reports:   report.NewService(vehicles, opts.Clock, opts.StaleAfterDays, opts.Logger),
	}
}

// MCP returns the services as the MCP layer sees them.
func (s *Services) MCP() mcp.Services {
	return mcp.Services{
		Vehicles:  s.Vehicles,
		Detailers: s.Detailers,
		Activity:  s.Activity,
		Reports:   s.Reports,
	}
}

// HTTP returns the REST dependencies. The caller fills in MCP, APIToken and Logger.
func (s *Services) HTTP() transport.Deps {
	return transport.Deps{
		Vehicles:  s.Vehicles,
		Detailers: s.Detailers,
		Activity:  s.Activity,
		Reports:   s.Reports,
	}
}
