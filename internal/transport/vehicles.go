package transport

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
)

// IntakeBody is the payload for POST /api/vehicles.
type IntakeBody struct {
	StockNumber string `json:"stock_number"`
	VIN         string `json:"vin"`
	Year        int    `json:"year"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Color       string `json:"color"`
	Detailer    string `json:"detailer"`
	Notes       string `json:"notes"`
	// DateIn accepts RFC 3339 or a plain YYYY-MM-DD date.
	DateIn string `json:"date_in"`
}

// CompletionBody sets a stage or sub-step.
type CompletionBody struct {
	Completed *bool   `json:"completed"`
	Notes     *string `json:"notes"`
}

type titleBody struct {
	InHouse *bool `json:"in_house"`
}

type notesBody struct {
	Notes string `json:"notes"`
}

type soldBody struct {
	Notes *string `json:"notes"`
}

type assignBody struct {
	DetailerID string `json:"detailer_id"`
}

// VehicleResponse is a vehicle plus the figures the dashboard shows beside it.
type VehicleResponse struct {
	vehicle.Vehicle
	AgeDays         int `json:"age_days"`
	CompletedStages int `json:"completed_stages"`
	TotalStages     int `json:"total_stages"`
}

func (s *Server) toResponse(v *vehicle.Vehicle) VehicleResponse {
	resp := VehicleResponse{
		Vehicle:     *v,
		AgeDays:     vehicle.Age(v, s.vehicles.Now()),
		TotalStages: len(workflow.Stages()),
	}
	if v.Workflow != nil {
		resp.CompletedStages = v.Workflow.CompletedCount()
	}
	return resp
}

func (s *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	var body IntakeBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	req := vehicle.IntakeRequest{
		StockNumber: body.StockNumber,
		VIN:         body.VIN,
		Year:        body.Year,
		Make:        body.Make,
		Model:       body.Model,
		Color:       body.Color,
		Detailer:    body.Detailer,
		Notes:       body.Notes,
	}
	if body.DateIn != "" {
		dateIn, err := vehicle.ParseDate(body.DateIn)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		req.DateIn = &dateIn
	}

	v, err := s.vehicles.Intake(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toResponse(v))
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	statuses, err := parseStatuses(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	list, err := s.vehicles.List(r.Context(), vehicle.ListOptions{
		Statuses:    statuses,
		Detailer:    r.URL.Query().Get("detailer"),
		InReconOnly: r.URL.Query().Get("in_recon") == "true",
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]VehicleResponse, 0, len(list))
	for i := range list {
		out = append(out, s.toResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := s.vehicles.Get(r.Context(), chi.URLParam(r, "stock"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(v))
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := s.vehicles.Delete(r.Context(), chi.URLParam(r, "stock")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetStage(w http.ResponseWriter, r *http.Request) {
	stage, err := workflow.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	var body CompletionBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}
	if body.Completed == nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "completed is required", nil)
		return
	}

	v, err := s.vehicles.SetStage(r.Context(), chi.URLParam(r, "stock"), stage, *body.Completed, body.Notes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(v))
}

func (s *Server) handleSetSubStep(w http.ResponseWriter, r *http.Request) {
	id, err := workflow.ParseSubStep(chi.URLParam(r, "substep"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	var body CompletionBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}
	if body.Completed == nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "completed is required", nil)
		return
	}

	v, err := s.vehicles.SetSubStep(r.Context(), chi.URLParam(r, "stock"), id, *body.Completed, body.Notes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(v))
}

func (s *Server) handleSetTitle(w http.ResponseWriter, r *http.Request) {
	var body titleBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}
	if body.InHouse == nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "in_house is required", nil)
		return
	}

	v, err := s.vehicles.SetTitleInHouse(r.Context(), chi.URLParam(r, "stock"), *body.InHouse)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(v))
}

func (s *Server) handleCheckLotReady(w http.ResponseWriter, r *http.Request) {
	gate, err := s.vehicles.CheckLotReady(r.Context(), chi.URLParam(r, "stock"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gate)
}

func (s *Server) handleAdvanceLotReady(w http.ResponseWriter, r *http.Request) {
	v, err := s.vehicles.AdvanceToLotReady(r.Context(), chi.URLParam(r, "stock"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(v))
}

func (s *Server) handleMarkSold(w http.ResponseWriter, r *http.Request) {
	var body soldBody
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
			return
		}
	}

	v, err := s.vehicles.MarkSold(r.Context(), chi.URLParam(r, "stock"), body.Notes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(v))
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var body notesBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	v, err := s.vehicles.UpdateNotes(r.Context(), chi.URLParam(r, "stock"), body.Notes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(v))
}

func (s *Server) handleAssignDetailer(w http.ResponseWriter, r *http.Request) {
	var body assignBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	v, err := s.vehicles.AssignDetailer(r.Context(), chi.URLParam(r, "stock"), strings.TrimSpace(body.DetailerID))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(v))
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	entries, err := s.vehicles.Timeline(r.Context(), chi.URLParam(r, "stock"), limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	statuses, err := parseStatuses(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	results, err := s.vehicles.Search(r.Context(), r.URL.Query().Get("q"), vehicle.SearchOptions{
		Statuses: statuses,
		Limit:    limit,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
		return
	}

	opts := activity.ListOptions{
		StockNumber: r.URL.Query().Get("stock"),
		BatchID:     r.URL.Query().Get("batch"),
		Limit:       limit,
		Offset:      offset,
	}
	if typ := r.URL.Query().Get("type"); typ != "" {
		t := activity.ActivityType(typ)
		opts.ActivityType = &t
	}

	entries, err := s.activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Generate(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// parseStatuses reads ?status=, repeated or comma separated.
func parseStatuses(r *http.Request) ([]workflow.Stage, error) {
	var statuses []workflow.Stage
	for _, raw := range r.URL.Query()["status"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			stage, err := workflow.ParseStage(part)
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, stage)
		}
	}
	return statuses, nil
}
