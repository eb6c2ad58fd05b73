package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/rpggio/recontrack/internal/report"
)

// VehicleService defines vehicle operations needed by MCP.
type VehicleService interface {
	Now() time.Time
	Intake(ctx context.Context, req vehicle.IntakeRequest) (*vehicle.Vehicle, error)
	Get(ctx context.Context, stockNumber string) (*vehicle.Vehicle, error)
	List(ctx context.Context, opts vehicle.ListOptions) ([]vehicle.Vehicle, error)
	Search(ctx context.Context, query string, opts vehicle.SearchOptions) ([]vehicle.SearchResult, error)
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

// DetailerService defines roster operations needed by MCP.
type DetailerService interface {
	Create(ctx context.Context, req detailer.CreateRequest) (*detailer.Detailer, error)
	List(ctx context.Context, activeOnly bool) ([]detailer.Detailer, error)
	Deactivate(ctx context.Context, id string) (*detailer.Detailer, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// ReportService produces the pipeline report.
type ReportService interface {
	Generate(ctx context.Context) (report.Report, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Vehicles  VehicleService
	Detailers DetailerService
	Activity  ActivityService
	Reports   ReportService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// APIToken is checked on HTTP requests when set. Stdio never checks it.
	APIToken      string
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "recontrack",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is a local, single-operator transport.
	var receiving []sdkmcp.Middleware
	if cfg.TransportMode != "stdio" && cfg.APIToken != "" {
		receiving = append(receiving, authMiddleware(cfg.APIToken))
	}
	receiving = append(receiving, batchMiddleware(), trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddReceivingMiddleware(receiving...)
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
