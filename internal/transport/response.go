package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
)

const maxBodySize = 1 << 20 // 1MB

// Error codes returned in the error envelope.
const (
	codeInvalidRequest    = "invalid_request"
	codeUnauthorized      = "unauthorized"
	codeNotFound          = "not_found"
	codeConflict          = "conflict"
	codeNotEligible       = "not_eligible"
	codeInconsistentState = "inconsistent_state"
	codeDetailerInactive  = "detailer_inactive"
	codeInternal          = "internal_error"
)

// ErrorBody is the error envelope: {"error": {...}}.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request. Missing lists unmet Lot Ready
// requirements when the code is not_eligible.
type ErrorDetail struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Missing []workflow.Stage `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, missing []workflow.Stage) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{
		Code:    code,
		Message: message,
		Missing: missing,
	}})
}

// writeDomainError maps service errors onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ineligible *workflow.IneligibleError
	switch {
	case errors.As(err, &ineligible):
		writeError(w, http.StatusUnprocessableEntity, codeNotEligible, err.Error(), ineligible.Missing)
	case errors.Is(err, vehicle.ErrVehicleNotFound), errors.Is(err, detailer.ErrDetailerNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error(), nil)
	case errors.Is(err, vehicle.ErrDuplicateStockNumber), errors.Is(err, detailer.ErrDuplicateName):
		writeError(w, http.StatusConflict, codeConflict, err.Error(), nil)
	case errors.Is(err, workflow.ErrInconsistentState):
		writeError(w, http.StatusConflict, codeInconsistentState, err.Error(), nil)
	case errors.Is(err, detailer.ErrInactive):
		writeError(w, http.StatusUnprocessableEntity, codeDetailerInactive, err.Error(), nil)
	case errors.Is(err, workflow.ErrInvalidStage),
		errors.Is(err, workflow.ErrInvalidSubStep),
		errors.Is(err, vehicle.ErrInvalidInput),
		errors.Is(err, detailer.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error(), nil)
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error", nil)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
