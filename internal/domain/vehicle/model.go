package vehicle

import (
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/recontrack/internal/domain/workflow"
)

// Vehicle is a unit of inventory moving through reconditioning.
// Status is a cache of workflow.DeriveStatus over Workflow.
type Vehicle struct {
	StockNumber string           `json:"stock_number"`
	VIN         string           `json:"vin,omitempty"`
	Year        int              `json:"year,omitempty"`
	Make        string           `json:"make,omitempty"`
	Model       string           `json:"model,omitempty"`
	Color       string           `json:"color,omitempty"`
	DetailerID  string           `json:"detailer_id,omitempty"`
	Detailer    string           `json:"detailer,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Status      workflow.Stage   `json:"status"`
	DateIn      time.Time        `json:"date_in"`
	DateOut     *time.Time       `json:"date_out,omitempty"`
	Workflow    *workflow.Record `json:"workflow"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (v *Vehicle) WorkflowRecord() *workflow.Record { return v.Workflow }

func (v *Vehicle) AttachWorkflow(rec *workflow.Record) { v.Workflow = rec }

func (v *Vehicle) IntakeDate() time.Time { return v.DateIn }

func (v *Vehicle) SetStatus(status workflow.Stage) { v.Status = status }

func (v *Vehicle) SetDateOut(t time.Time) {
	out := t
	v.DateOut = &out
}

// Description is the "year make model" line shown in lists.
func (v *Vehicle) Description() string {
	parts := make([]string, 0, 3)
	if v.Year > 0 {
		parts = append(parts, strconv.Itoa(v.Year))
	}
	for _, p := range []string{v.Make, v.Model} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Age returns whole days since intake, measured to DateOut once the vehicle
// has left reconditioning.
func Age(v *Vehicle, now time.Time) int {
	end := now
	if v.DateOut != nil {
		end = *v.DateOut
	}
	days := int(end.Sub(v.DateIn).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// SearchResult is a search hit with relevance
type SearchResult struct {
	Vehicle Vehicle `json:"vehicle"`
	Rank    float64 `json:"rank"`
	Snippet string  `json:"snippet,omitempty"`
}
