package workflow

import "strings"

// Stage is a position in the reconditioning pipeline.
type Stage string

const (
	StageNewArrival Stage = "New Arrival"
	StageMechanical Stage = "Mechanical"
	StageDetailing  Stage = "Detailing"
	StagePhotos     Stage = "Photos"
	StageTitle      Stage = "Title"
	StageLotReady   Stage = "Lot Ready"
	StageSold       Stage = "Sold"
)

var allStages = []Stage{
	StageNewArrival,
	StageMechanical,
	StageDetailing,
	StagePhotos,
	StageTitle,
	StageLotReady,
	StageSold,
}

var stageIndex = func() map[Stage]int {
	idx := make(map[Stage]int, len(allStages))
	for i, stage := range allStages {
		idx[stage] = i
	}
	return idx
}()

// Stages returns the canonical pipeline order.
func Stages() []Stage {
	cp := make([]Stage, len(allStages))
	copy(cp, allStages)
	return cp
}

// ParseStage accepts display names ("Lot Ready") and slugs ("lot-ready",
// "lot_ready", "lotready"), case-insensitively.
func ParseStage(value string) (Stage, error) {
	key := normalizeKey(value)
	for _, stage := range allStages {
		if normalizeKey(string(stage)) == key {
			return stage, nil
		}
	}
	return "", &InvalidStageError{Value: value}
}

// Valid reports whether s is one of the seven pipeline stages.
func (s Stage) Valid() bool {
	_, ok := stageIndex[s]
	return ok
}

// Index returns the pipeline position of s, or -1 when s is unknown.
func (s Stage) Index() int {
	if i, ok := stageIndex[s]; ok {
		return i
	}
	return -1
}

// Slug returns the URL form of the stage, e.g. "new-arrival".
func (s Stage) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

func (s Stage) String() string {
	return string(s)
}

// InRecon reports whether a vehicle in this status is still being reconditioned.
func (s Stage) InRecon() bool {
	switch s {
	case StageLotReady, StageSold:
		return false
	default:
		return s.Valid()
	}
}

// SubStep identifies a task inside the Mechanical stage.
type SubStep string

const (
	// SubStepEmailSent: service manager has been notified.
	SubStepEmailSent SubStep = "email-sent"
	// SubStepPickedUp: a technician has taken the vehicle off the lot.
	SubStepPickedUp SubStep = "vehicle-pickup"
	// SubStepServiceCompleted: the vehicle is back on the lot, serviced.
	SubStepServiceCompleted SubStep = "vehicle-returned"
)

var allSubSteps = []SubStep{
	SubStepEmailSent,
	SubStepPickedUp,
	SubStepServiceCompleted,
}

var subStepAliases = map[string]SubStep{
	"emailsent":          SubStepEmailSent,
	"email":              SubStepEmailSent,
	"vehiclepickup":      SubStepPickedUp,
	"pickedup":           SubStepPickedUp,
	"pickedupforservice": SubStepPickedUp,
	"inservice":          SubStepPickedUp,
	"vehiclereturned":    SubStepServiceCompleted,
	"servicecompleted":   SubStepServiceCompleted,
	"completed":          SubStepServiceCompleted,
}

var subStepLabels = map[SubStep]string{
	SubStepEmailSent:        "Email to Service Manager",
	SubStepPickedUp:         "Technician Pickup",
	SubStepServiceCompleted: "Vehicle Returned Complete",
}

// SubSteps returns the Mechanical sub-steps in the order they happen.
func SubSteps() []SubStep {
	cp := make([]SubStep, len(allSubSteps))
	copy(cp, allSubSteps)
	return cp
}

// ParseSubStep accepts the current identifiers and the older labels
// ("in-service", "completed") found in previously saved inventories.
func ParseSubStep(value string) (SubStep, error) {
	if id, ok := subStepAliases[normalizeKey(value)]; ok {
		return id, nil
	}
	return "", &InvalidSubStepError{Value: value}
}

// Valid reports whether id is a known Mechanical sub-step.
func (id SubStep) Valid() bool {
	_, ok := subStepLabels[id]
	return ok
}

// Label is the human readable name of the sub-step.
func (id SubStep) Label() string {
	return subStepLabels[id]
}

func (id SubStep) String() string {
	return string(id)
}

func normalizeKey(value string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "_", "")
	return replacer.Replace(strings.ToLower(strings.TrimSpace(value)))
}
