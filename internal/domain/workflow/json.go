package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Persisted shape: an object keyed by stage name, each value
// {completed, completedAt, notes, titleInHouse?, subSteps?}. Older inventories
// used "date" and "inHouse"; both are still read.
type stageJSON struct {
	Completed    bool                   `json:"completed"`
	CompletedAt  *string                `json:"completedAt"`
	Notes        *string                `json:"notes"`
	TitleInHouse *bool                  `json:"titleInHouse,omitempty"`
	SubSteps     map[string]subStepJSON `json:"subSteps,omitempty"`
	Date         *string                `json:"date,omitempty"`
	InHouse      *bool                  `json:"inHouse,omitempty"`
}

type subStepJSON struct {
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completedAt"`
	Notes       *string `json:"notes"`
	Date        *string `json:"date,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// MarshalJSON encodes the record keyed by stage name.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]stageJSON, len(allStages))
	for _, stage := range allStages {
		rec, err := r.lookup(stage)
		if err != nil {
			return nil, err
		}
		item := stageJSON{
			Completed:   rec.Completed,
			CompletedAt: formatTimestamp(rec.CompletedAt),
			Notes:       optionalString(rec.Notes),
		}
		if stage == StageTitle {
			inHouse := rec.TitleInHouse
			item.TitleInHouse = &inHouse
		}
		if stage == StageMechanical {
			item.SubSteps = make(map[string]subStepJSON, len(allSubSteps))
			for _, id := range allSubSteps {
				sub := rec.SubSteps[id]
				item.SubSteps[string(id)] = subStepJSON{
					Completed:   sub.Completed,
					CompletedAt: formatTimestamp(sub.CompletedAt),
					Notes:       optionalString(sub.Notes),
				}
			}
		}
		out[string(stage)] = item
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a persisted record and fills in any structure the
// stored copy lacks, so the result is always well formed.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]stageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode workflow: %w", err)
	}

	rec := &Record{stages: make(map[Stage]*StageRecord, len(allStages))}
	var mechanicalSubSteps map[string]subStepJSON
	for key, item := range raw {
		stage, err := ParseStage(key)
		if err != nil {
			return err
		}
		if rec.stages[stage] != nil {
			return fmt.Errorf("decode workflow: duplicate stage %q", key)
		}
		completedAt, err := parseTimestamp(firstNonNil(item.CompletedAt, item.Date))
		if err != nil {
			return fmt.Errorf("decode workflow %s: %w", stage, err)
		}
		sr := &StageRecord{
			Completed:   item.Completed,
			CompletedAt: completedAt,
			Notes:       derefString(item.Notes),
		}
		if stage == StageTitle {
			if item.TitleInHouse != nil {
				sr.TitleInHouse = *item.TitleInHouse
			} else if item.InHouse != nil {
				sr.TitleInHouse = *item.InHouse
			}
		}
		if stage == StageMechanical {
			mechanicalSubSteps = item.SubSteps
		}
		rec.stages[stage] = sr
	}

	for _, stage := range allStages {
		if rec.stages[stage] == nil {
			rec.stages[stage] = &StageRecord{Completed: stage == StageNewArrival}
		}
	}

	if err := rec.normalizeMechanical(mechanicalSubSteps); err != nil {
		return err
	}

	*r = *rec
	return nil
}

// normalizeMechanical rebuilds the sub-step map. Without stored sub-steps the
// stage's own completion is spread across all three; with them, Mechanical
// follows the sub-steps.
func (r *Record) normalizeMechanical(stored map[string]subStepJSON) error {
	mech := r.stages[StageMechanical]
	mech.SubSteps = defaultSubSteps()

	if stored == nil {
		if mech.Completed {
			for _, id := range allSubSteps {
				mech.SubSteps[id] = SubStepRecord{Completed: true, CompletedAt: cloneTime(mech.CompletedAt)}
			}
		}
		return nil
	}

	var latest *time.Time
	seen := make(map[SubStep]bool, len(stored))
	for key, item := range stored {
		id, err := ParseSubStep(key)
		if err != nil {
			return err
		}
		if seen[id] {
			return fmt.Errorf("decode workflow: duplicate sub-step %q", key)
		}
		seen[id] = true
		at, err := parseTimestamp(firstNonNil(item.CompletedAt, item.Date))
		if err != nil {
			return fmt.Errorf("decode workflow sub-step %s: %w", id, err)
		}
		mech.SubSteps[id] = SubStepRecord{
			Completed:   item.Completed,
			CompletedAt: at,
			Notes:       derefString(item.Notes),
		}
		if at != nil && (latest == nil || at.After(*latest)) {
			latest = at
		}
	}

	all := r.allSubStepsCompleted()
	switch {
	case all && !mech.Completed:
		mech.Completed = true
		mech.CompletedAt = cloneTime(latest)
	case !all && mech.Completed:
		mech.Completed = false
		mech.CompletedAt = nil
		mech.Notes = ""
	}
	return nil
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func parseTimestamp(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, strings.TrimSpace(*value))
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("parse timestamp %q: %w", *value, lastErr)
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
