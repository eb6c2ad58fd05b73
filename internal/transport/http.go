package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/rpggio/recontrack/internal/report"
)

// VehicleService defines vehicle operations exposed over HTTP.
type VehicleService interface {
	Now() time.Time
	Intake(ctx context.Context, req vehicle.IntakeRequest) (*vehicle.Vehicle, error)
	Get(ctx context.Context, stockNumber string) (*vehicle.Vehicle, error)
	List(ctx context.Context, opts vehicle.ListOptions) ([]vehicle.Vehicle, error)
	Search(ctx context.Context, query string, opts vehicle.SearchOptions) ([]vehicle.SearchResult, error)
	Delete(ctx context.Context, stockNumber string) error
	SetStage(ctx context.Context, stockNumber string, stage workflow.Stage, completed bool, notes *string) (*vehicle.Vehicle, error)
	SetSubStep(ctx context.Context, stockNumber string, id workflow.SubStep, completed bool, notes *string) (*vehicle.Vehicle, error)
	SetTitleInHouse(ctx context.Context, stockNumber string, inHouse bool) (*vehicle.Vehicle, error)
	AdvanceToLotReady(ctx context.Context, stockNumber string) (*vehicle.Vehicle, error)
	MarkSold(ctx context.Context, stockNumber string, notes *string) (*vehicle.Vehicle, error)
	CheckLotReady(ctx context.Context, stockNumber string) (workflow.Eligibility, error)
	UpdateNotes(ctx context.Context, stockNumber, notes string) (*vehicle.Vehicle, error)
	AssignDetailer(ctx context.Context, stockNumber, detailerID string) (*vehicle.Vehicle, error)
	Timeline(ctx context.Context, stockNumber string, limit int) ([]activity.Entry, error)
}

// DetailerService defines roster operations exposed over HTTP.
type DetailerService interface {
	Create(ctx context.Context, req detailer.CreateRequest) (*detailer.Detailer, error)
	Get(ctx context.Context, id string) (*detailer.Detailer, error)
	List(ctx context.Context, activeOnly bool) ([]detailer.Detailer, error)
	Update(ctx context.Context, req detailer.UpdateRequest) (*detailer.Detailer, error)
	Deactivate(ctx context.Context, id string) (*detailer.Detailer, error)
}

// ActivityService defines timeline reads exposed over HTTP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// ReportService produces the pipeline report.
type ReportService interface {
	Generate(ctx context.Context) (report.Report, error)
}

// Deps are the services behind the REST API. MCP, when set, is mounted at /mcp.
type Deps struct {
	Vehicles  VehicleService
	Detailers DetailerService
	Activity  ActivityService
	Reports   ReportService
	MCP       http.Handler
	APIToken  string
	Logger    *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	vehicles  VehicleService
	detailers DetailerService
	activity  ActivityService
	reports   ReportService
	logger    *slog.Logger
}

// NewServer creates the HTTP router with middleware.
func NewServer(deps Deps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{
		vehicles:  deps.Vehicles,
		detailers: deps.Detailers,
		activity:  deps.Activity,
		reports:   deps.Reports,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(BearerAuth(deps.APIToken))
		r.Use(BatchMiddleware)

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", srv.handleListVehicles)
			r.Post("/", srv.handleIntake)
			r.Route("/{stock}", func(r chi.Router) {
				r.Get("/", srv.handleGetVehicle)
				r.Delete("/", srv.handleDeleteVehicle)
				r.Put("/stages/{stage}", srv.handleSetStage)
				r.Put("/substeps/{substep}", srv.handleSetSubStep)
				r.Put("/title", srv.handleSetTitle)
				r.Get("/lot-ready", srv.handleCheckLotReady)
				r.Post("/lot-ready", srv.handleAdvanceLotReady)
				r.Post("/sold", srv.handleMarkSold)
				r.Put("/notes", srv.handleUpdateNotes)
				r.Put("/detailer", srv.handleAssignDetailer)
				r.Get("/timeline", srv.handleTimeline)
			})
		})

		r.Route("/detailers", func(r chi.Router) {
			r.Get("/", srv.handleListDetailers)
			r.Post("/", srv.handleCreateDetailer)
			r.Get("/{id}", srv.handleGetDetailer)
			r.Patch("/{id}", srv.handleUpdateDetailer)
			r.Delete("/{id}", srv.handleDeactivateDetailer)
		})

		r.Get("/activity", srv.handleListActivity)
		r.Get("/report", srv.handleReport)
		r.Get("/search", srv.handleSearch)
	})

	if deps.MCP != nil {
		r.Handle("/mcp", deps.MCP)
		r.Handle("/mcp/*", deps.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
