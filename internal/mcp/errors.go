package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors return nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ineligible *workflow.IneligibleError
	switch {
	case errors.As(err, &ineligible):
		return &APIError{
			Code:         "NOT_ELIGIBLE",
			Message:      err.Error(),
			Details:      map[string]any{"missing": ineligible.Missing},
			RecoveryHint: "Complete the missing stages, then call advance_to_lot_ready again",
		}
	case errors.Is(err, vehicle.ErrVehicleNotFound):
		return &APIError{Code: "VEHICLE_NOT_FOUND", Message: "vehicle not found", RecoveryHint: "Check the stock number with list_vehicles or search_vehicles"}
	case errors.Is(err, vehicle.ErrDuplicateStockNumber):
		return &APIError{Code: "DUPLICATE_STOCK_NUMBER", Message: "stock number already in inventory", RecoveryHint: "Use get_vehicle to inspect the existing vehicle"}
	case errors.Is(err, workflow.ErrInconsistentState):
		return &APIError{Code: "INCONSISTENT_STATE", Message: err.Error(), RecoveryHint: "Mechanical follows its sub-steps; Lot Ready is reached through advance_to_lot_ready"}
	case errors.Is(err, workflow.ErrInvalidStage):
		return &APIError{Code: "INVALID_STAGE", Message: err.Error(), RecoveryHint: "Valid stages: New Arrival, Mechanical, Detailing, Photos, Title, Lot Ready, Sold"}
	case errors.Is(err, workflow.ErrInvalidSubStep):
		return &APIError{Code: "INVALID_SUBSTEP", Message: err.Error(), RecoveryHint: "Valid sub-steps: email-sent, vehicle-pickup, vehicle-returned"}
	case errors.Is(err, detailer.ErrDetailerNotFound):
		return &APIError{Code: "DETAILER_NOT_FOUND", Message: "detailer not found", RecoveryHint: "Use list_detailers to find the detailer id"}
	case errors.Is(err, detailer.ErrDuplicateName):
		return &APIError{Code: "DUPLICATE_DETAILER", Message: "a detailer with that name already exists"}
	case errors.Is(err, detailer.ErrInactive):
		return &APIError{Code: "DETAILER_INACTIVE", Message: "detailer is inactive", RecoveryHint: "Assign an active detailer"}
	case errors.Is(err, vehicle.ErrInvalidInput),
		errors.Is(err, detailer.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}
