package mcp

import (
	"context"
	"encoding/json"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
)

// registerTools adds every tool to the server.
func registerTools(server *sdkmcp.Server, svc Services) {
	t := &tools{svc: svc}

	// Inventory
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "intake_vehicle",
		Description: "Add a vehicle to inventory. It starts at New Arrival with a fresh workflow.",
	}, t.intakeVehicle)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_vehicle",
		Description: "Get one vehicle with its full workflow record",
	}, t.getVehicle)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_vehicles",
		Description: "List vehicles oldest intake first, optionally filtered by status or detailer",
	}, t.listVehicles)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_vehicles",
		Description: "Full-text search over stock number, VIN, make, model, color and notes",
	}, t.searchVehicles)

	// Workflow
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_stage",
		Description: "Mark a stage complete or incomplete. Mechanical follows its sub-steps and Lot Ready is only reached through advance_to_lot_ready.",
	}, t.setStage)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_substep",
		Description: "Mark a Mechanical sub-step (email-sent, vehicle-pickup, vehicle-returned). Mechanical completes when all three are done.",
	}, t.setSubStep)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_title_in_house",
		Description: "Record whether the title document is on hand. Setting it true also completes the Title stage.",
	}, t.setTitleInHouse)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "check_lot_ready",
		Description: "Check the Lot Ready gate without changing anything. Lists what is still missing.",
	}, t.checkLotReady)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "advance_to_lot_ready",
		Description: "Move a vehicle to Lot Ready. Requires Mechanical, Detailing and Photos complete and the title in-house.",
	}, t.advanceToLotReady)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "mark_sold",
		Description: "Mark a vehicle sold",
	}, t.markSold)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_notes",
		Description: "Replace a vehicle's notes",
	}, t.updateNotes)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "assign_detailer",
		Description: "Assign an active detailer from the roster to a vehicle",
	}, t.assignDetailer)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_timeline",
		Description: "Get a vehicle's activity timeline, newest first",
	}, t.getTimeline)

	// Roster
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_detailers",
		Description: "List the detailer roster",
	}, t.listDetailers)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_detailer",
		Description: "Add a detailer to the roster",
	}, t.createDetailer)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "deactivate_detailer",
		Description: "Take a detailer off the active roster",
	}, t.deactivateDetailer)

	// Reporting
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Recent timeline entries across inventory, newest first",
	}, t.getRecentActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_pipeline_report",
		Description: "Vehicle counts and average age per stage, the bottleneck stage, and stale vehicles",
	}, t.getPipelineReport)
}

type tools struct {
	svc Services
}

func (t *tools) intakeVehicle(ctx context.Context, _ *sdkmcp.CallToolRequest, in IntakeVehicleParams) (*sdkmcp.CallToolResult, any, error) {
	req := vehicle.IntakeRequest{
		StockNumber: in.StockNumber,
		VIN:         in.VIN,
		Year:        in.Year,
		Make:        in.Make,
		Model:       in.Model,
		Color:       in.Color,
		Detailer:    in.Detailer,
		Notes:       in.Notes,
	}
	if in.DateIn != "" {
		dateIn, err := vehicle.ParseDate(in.DateIn)
		if err != nil {
			return errorResult(err)
		}
		req.DateIn = &dateIn
	}
	return vehicleResult(t.svc.Vehicles.Intake(ctx, req))
}

func (t *tools) getVehicle(ctx context.Context, _ *sdkmcp.CallToolRequest, in StockParams) (*sdkmcp.CallToolResult, any, error) {
	return vehicleResult(t.svc.Vehicles.Get(ctx, in.StockNumber))
}

func (t *tools) listVehicles(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListVehiclesParams) (*sdkmcp.CallToolResult, any, error) {
	statuses, err := parseStages(in.Statuses)
	if err != nil {
		return errorResult(err)
	}
	list, err := t.svc.Vehicles.List(ctx, vehicle.ListOptions{
		Statuses:    statuses,
		Detailer:    in.Detailer,
		InReconOnly: in.InReconOnly,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return errorResult(err)
	}

	now := t.svc.Vehicles.Now()
	resp := ListVehiclesResponse{Vehicles: make([]VehicleSummary, 0, len(list))}
	for i := range list {
		resp.Vehicles = append(resp.Vehicles, summarize(&list[i], now))
	}
	return jsonResult(resp)
}

func (t *tools) searchVehicles(ctx context.Context, _ *sdkmcp.CallToolRequest, in SearchVehiclesParams) (*sdkmcp.CallToolResult, any, error) {
	statuses, err := parseStages(in.Statuses)
	if err != nil {
		return errorResult(err)
	}
	results, err := t.svc.Vehicles.Search(ctx, in.Query, vehicle.SearchOptions{Statuses: statuses, Limit: in.Limit})
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(SearchVehiclesResponse{Results: results})
}

func (t *tools) setStage(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetStageParams) (*sdkmcp.CallToolResult, any, error) {
	stage, err := workflow.ParseStage(in.Stage)
	if err != nil {
		return errorResult(err)
	}
	return vehicleResult(t.svc.Vehicles.SetStage(ctx, in.StockNumber, stage, in.Completed, in.Notes))
}

func (t *tools) setSubStep(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetSubStepParams) (*sdkmcp.CallToolResult, any, error) {
	id, err := workflow.ParseSubStep(in.SubStep)
	if err != nil {
		return errorResult(err)
	}
	return vehicleResult(t.svc.Vehicles.SetSubStep(ctx, in.StockNumber, id, in.Completed, in.Notes))
}

func (t *tools) setTitleInHouse(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetTitleInHouseParams) (*sdkmcp.CallToolResult, any, error) {
	return vehicleResult(t.svc.Vehicles.SetTitleInHouse(ctx, in.StockNumber, in.InHouse))
}

func (t *tools) checkLotReady(ctx context.Context, _ *sdkmcp.CallToolRequest, in StockParams) (*sdkmcp.CallToolResult, any, error) {
	gate, err := t.svc.Vehicles.CheckLotReady(ctx, in.StockNumber)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(gate)
}

func (t *tools) advanceToLotReady(ctx context.Context, _ *sdkmcp.CallToolRequest, in StockParams) (*sdkmcp.CallToolResult, any, error) {
	return vehicleResult(t.svc.Vehicles.AdvanceToLotReady(ctx, in.StockNumber))
}

func (t *tools) markSold(ctx context.Context, _ *sdkmcp.CallToolRequest, in MarkSoldParams) (*sdkmcp.CallToolResult, any, error) {
	return vehicleResult(t.svc.Vehicles.MarkSold(ctx, in.StockNumber, in.Notes))
}

func (t *tools) updateNotes(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateNotesParams) (*sdkmcp.CallToolResult, any, error) {
	return vehicleResult(t.svc.Vehicles.UpdateNotes(ctx, in.StockNumber, in.Notes))
}

func (t *tools) assignDetailer(ctx context.Context, _ *sdkmcp.CallToolRequest, in AssignDetailerParams) (*sdkmcp.CallToolResult, any, error) {
	return vehicleResult(t.svc.Vehicles.AssignDetailer(ctx, in.StockNumber, in.DetailerID))
}

func (t *tools) getTimeline(ctx context.Context, _ *sdkmcp.CallToolRequest, in TimelineParams) (*sdkmcp.CallToolResult, any, error) {
	entries, err := t.svc.Vehicles.Timeline(ctx, in.StockNumber, in.Limit)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(TimelineResponse{Entries: entries})
}

func (t *tools) listDetailers(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListDetailersParams) (*sdkmcp.CallToolResult, any, error) {
	list, err := t.svc.Detailers.List(ctx, in.ActiveOnly)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]any{"detailers": list})
}

func (t *tools) createDetailer(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateDetailerParams) (*sdkmcp.CallToolResult, any, error) {
	d, err := t.svc.Detailers.Create(ctx, detailer.CreateRequest{Name: in.Name, Email: in.Email, Phone: in.Phone})
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(d)
}

func (t *tools) deactivateDetailer(ctx context.Context, _ *sdkmcp.CallToolRequest, in DetailerIDParams) (*sdkmcp.CallToolResult, any, error) {
	d, err := t.svc.Detailers.Deactivate(ctx, in.ID)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(d)
}

func (t *tools) getRecentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, any, error) {
	opts := activity.ListOptions{
		StockNumber: in.StockNumber,
		BatchID:     in.BatchID,
		Limit:       in.Limit,
	}
	if in.Type != "" {
		typ := activity.ActivityType(in.Type)
		opts.ActivityType = &typ
	}
	entries, err := t.svc.Activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(TimelineResponse{Entries: entries})
}

func (t *tools) getPipelineReport(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	rep, err := t.svc.Reports.Generate(ctx)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(rep)
}

func summarize(v *vehicle.Vehicle, now time.Time) VehicleSummary {
	s := VehicleSummary{
		StockNumber: v.StockNumber,
		Description: v.Description(),
		Color:       v.Color,
		Status:      v.Status,
		Detailer:    v.Detailer,
		AgeDays:     vehicle.Age(v, now),
	}
	if v.Workflow != nil {
		s.CompletedStages = v.Workflow.CompletedCount()
	}
	return s
}

func parseStages(values []string) ([]workflow.Stage, error) {
	stages := make([]workflow.Stage, 0, len(values))
	for _, value := range values {
		stage, err := workflow.ParseStage(value)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

func vehicleResult(v *vehicle.Vehicle, err error) (*sdkmcp.CallToolResult, any, error) {
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(v)
}

func jsonResult(payload any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// errorResult reports a tool failure in-band so the agent sees the code and
// recovery hint.
func errorResult(err error) (*sdkmcp.CallToolResult, any, error) {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
