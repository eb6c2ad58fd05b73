package mcp

import (
	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
)

type IntakeVehicleParams struct {
	StockNumber string `json:"stock_number" jsonschema:"dealer stock number, unique in inventory"`
	VIN         string `json:"vin,omitempty" jsonschema:"17 character VIN"`
	Year        int    `json:"year,omitempty" jsonschema:"model year"`
	Make        string `json:"make,omitempty"`
	Model       string `json:"model,omitempty"`
	Color       string `json:"color,omitempty"`
	Detailer    string `json:"detailer,omitempty" jsonschema:"detailer name, free text"`
	Notes       string `json:"notes,omitempty"`
	DateIn      string `json:"date_in,omitempty" jsonschema:"intake date, RFC 3339 or YYYY-MM-DD; defaults to now"`
}

type StockParams struct {
	StockNumber string `json:"stock_number" jsonschema:"dealer stock number"`
}

type ListVehiclesParams struct {
	Statuses    []string `json:"statuses,omitempty" jsonschema:"filter by status, e.g. Mechanical or lot-ready"`
	Detailer    string   `json:"detailer,omitempty" jsonschema:"filter by assigned detailer name"`
	InReconOnly bool     `json:"in_recon_only,omitempty" jsonschema:"exclude Lot Ready and Sold vehicles"`
	Limit       int      `json:"limit,omitempty"`
	Offset      int      `json:"offset,omitempty"`
}

type SearchVehiclesParams struct {
	Query    string   `json:"query" jsonschema:"words matched against stock number, VIN, make, model, color and notes"`
	Statuses []string `json:"statuses,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

type SetStageParams struct {
	StockNumber string  `json:"stock_number"`
	Stage       string  `json:"stage" jsonschema:"stage name, e.g. Detailing or photos"`
	Completed   bool    `json:"completed"`
	Notes       *string `json:"notes,omitempty" jsonschema:"replaces the stage notes when given"`
}

type SetSubStepParams struct {
	StockNumber string  `json:"stock_number"`
	SubStep     string  `json:"sub_step" jsonschema:"email-sent, vehicle-pickup or vehicle-returned"`
	Completed   bool    `json:"completed"`
	Notes       *string `json:"notes,omitempty"`
}

type SetTitleInHouseParams struct {
	StockNumber string `json:"stock_number"`
	InHouse     bool   `json:"in_house" jsonschema:"whether the title document is physically on hand"`
}

type MarkSoldParams struct {
	StockNumber string  `json:"stock_number"`
	Notes       *string `json:"notes,omitempty"`
}

type UpdateNotesParams struct {
	StockNumber string `json:"stock_number"`
	Notes       string `json:"notes"`
}

type AssignDetailerParams struct {
	StockNumber string `json:"stock_number"`
	DetailerID  string `json:"detailer_id" jsonschema:"roster id; empty clears the assignment"`
}

type TimelineParams struct {
	StockNumber string `json:"stock_number"`
	Limit       int    `json:"limit,omitempty"`
}

type CreateDetailerParams struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ListDetailersParams struct {
	ActiveOnly bool `json:"active_only,omitempty"`
}

type DetailerIDParams struct {
	ID string `json:"id"`
}

type GetRecentActivityParams struct {
	StockNumber string `json:"stock_number,omitempty"`
	Type        string `json:"type,omitempty" jsonschema:"activity type, e.g. stage_completed or lot_ready"`
	BatchID     string `json:"batch_id,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

type EmptyParams struct{}

// VehicleSummary is the compact vehicle shape returned by list tools.
type VehicleSummary struct {
	StockNumber     string         `json:"stock_number"`
	Description     string         `json:"description"`
	Color           string         `json:"color,omitempty"`
	Status          workflow.Stage `json:"status"`
	Detailer        string         `json:"detailer,omitempty"`
	AgeDays         int            `json:"age_days"`
	CompletedStages int            `json:"completed_stages"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleSummary `json:"vehicles"`
}

type SearchVehiclesResponse struct {
	Results []vehicle.SearchResult `json:"results"`
}

type TimelineResponse struct {
	Entries []activity.Entry `json:"entries"`
}
