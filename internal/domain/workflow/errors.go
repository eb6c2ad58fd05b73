package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidStage indicates a stage outside the pipeline enum.
	ErrInvalidStage = errors.New("invalid stage")
	// ErrInvalidSubStep indicates a sub-step outside the Mechanical enum.
	ErrInvalidSubStep = errors.New("invalid sub-step")
	// ErrIneligible indicates the Lot Ready gate is not satisfied.
	ErrIneligible = errors.New("not eligible for lot ready")
	// ErrInconsistentState indicates a mutation that would break a workflow invariant.
	ErrInconsistentState = errors.New("inconsistent workflow state")
)

// InvalidStageError carries the rejected stage value.
type InvalidStageError struct {
	Value string
}

func (e *InvalidStageError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidStage, e.Value)
}

func (e *InvalidStageError) Is(target error) bool {
	return target == ErrInvalidStage
}

// InvalidSubStepError carries the rejected sub-step value.
type InvalidSubStepError struct {
	Value string
}

func (e *InvalidSubStepError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidSubStep, e.Value)
}

func (e *InvalidSubStepError) Is(target error) bool {
	return target == ErrInvalidSubStep
}

// IneligibleError lists the gating conditions that are still unmet, in
// pipeline order.
type IneligibleError struct {
	Missing []Stage
}

func (e *IneligibleError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, stage := range e.Missing {
		names = append(names, gateLabel(stage))
	}
	return fmt.Sprintf("%s: missing %s", ErrIneligible, strings.Join(names, ", "))
}

func (e *IneligibleError) Is(target error) bool {
	return target == ErrIneligible
}

// InconsistentStateError is returned when a caller tries to set a stage
// directly in a way that contradicts derived state.
type InconsistentStateError struct {
	Stage  Stage
	Reason string
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInconsistentState, e.Stage, e.Reason)
}

func (e *InconsistentStateError) Is(target error) bool {
	return target == ErrInconsistentState
}
