package activity

import "time"

// ActivityType represents the kind of timeline event
type ActivityType string

const (
	TypeIntake           ActivityType = "intake"
	TypeStageCompleted   ActivityType = "stage_completed"
	TypeStageReverted    ActivityType = "stage_reverted"
	TypeSubStepCompleted ActivityType = "substep_completed"
	TypeSubStepReverted  ActivityType = "substep_reverted"
	TypeTitleInHouse     ActivityType = "title_in_house"
	TypeTitleOut         ActivityType = "title_out"
	TypeLotReady         ActivityType = "lot_ready"
	TypeSold             ActivityType = "sold"
	TypeNotesUpdated     ActivityType = "notes_updated"
	TypeDetailerAssigned ActivityType = "detailer_assigned"
	TypeStatusChanged    ActivityType = "status_changed"
)

// Entry is one event on a vehicle's timeline
type Entry struct {
	ID           int64        `json:"id"`
	StockNumber  string       `json:"stock_number"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	BatchID      string       `json:"batch_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
