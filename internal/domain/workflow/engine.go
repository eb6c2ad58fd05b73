package workflow

import "time"

// Clock returns the current time. Timestamps written by the engine come from it.
type Clock func() time.Time

// SystemClock is the default clock: wall time in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Vehicle is the caller-owned entity the engine attaches a workflow to.
// Status is a cache of DeriveStatus over the attached record.
type Vehicle interface {
	WorkflowRecord() *Record
	AttachWorkflow(rec *Record)
	IntakeDate() time.Time
	SetStatus(status Stage)
	SetDateOut(t time.Time)
}

// Engine applies workflow mutations to one record at a time. It holds no
// vehicle state; callers serialize mutations per vehicle.
type Engine struct {
	now Clock
}

// NewEngine creates an engine. A nil clock uses SystemClock.
func NewEngine(now Clock) *Engine {
	if now == nil {
		now = SystemClock
	}
	return &Engine{now: now}
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// GetOrInit returns the vehicle's workflow, attaching a fresh one dated to
// the intake date on first use. Later calls return the same record untouched.
func (e *Engine) GetOrInit(v Vehicle) *Record {
	if rec := v.WorkflowRecord(); rec != nil {
		return rec
	}
	intake := v.IntakeDate()
	if intake.IsZero() {
		intake = e.now()
	}
	rec := newRecord(intake)
	v.AttachWorkflow(rec)
	return rec
}

// Refresh recomputes the vehicle's cached status from its workflow.
func (e *Engine) Refresh(v Vehicle) Stage {
	status := DeriveStatus(e.GetOrInit(v))
	v.SetStatus(status)
	return status
}

// SetStageCompletion marks a stage complete or incomplete.
//
// Mechanical follows its sub-steps and Lot Ready is only reachable through
// AdvanceToLotReady; requests that contradict either return an
// InconsistentStateError and leave the record unchanged.
func (e *Engine) SetStageCompletion(rec *Record, stage Stage, completed bool, notes *string) error {
	target, err := rec.lookup(stage)
	if err != nil {
		return err
	}

	if target.Completed != completed {
		switch stage {
		case StageMechanical:
			if completed != rec.allSubStepsCompleted() {
				reason := "sub-steps are incomplete"
				if !completed {
					reason = "all sub-steps are complete"
				}
				return &InconsistentStateError{Stage: stage, Reason: reason}
			}
		case StageLotReady:
			if completed {
				return &InconsistentStateError{Stage: stage, Reason: "use the lot ready action"}
			}
		}
	}

	e.applyCompletion(&target.Completed, &target.CompletedAt, &target.Notes, completed, notes)
	return nil
}

// SetSubStepCompletion marks a Mechanical sub-step and keeps
// Mechanical.Completed equal to "all sub-steps completed".
func (e *Engine) SetSubStepCompletion(rec *Record, id SubStep, completed bool, notes *string) error {
	if !id.Valid() {
		return &InvalidSubStepError{Value: string(id)}
	}
	mech, err := rec.lookup(StageMechanical)
	if err != nil {
		return err
	}
	if mech.SubSteps == nil {
		mech.SubSteps = defaultSubSteps()
	}

	sub := mech.SubSteps[id]
	e.applyCompletion(&sub.Completed, &sub.CompletedAt, &sub.Notes, completed, notes)
	mech.SubSteps[id] = sub

	all := rec.allSubStepsCompleted()
	switch {
	case all && !mech.Completed:
		now := e.now()
		mech.Completed = true
		mech.CompletedAt = &now
		mech.Notes = "All mechanical work completed"
	case !all && mech.Completed:
		mech.Completed = false
		mech.CompletedAt = nil
		mech.Notes = ""
	}
	return nil
}

// SetTitleInHouse records whether the title is in-house. Receiving the title
// completes the Title stage; clearing the flag leaves completion alone.
func (e *Engine) SetTitleInHouse(rec *Record, inHouse bool) error {
	title, err := rec.lookup(StageTitle)
	if err != nil {
		return err
	}
	title.TitleInHouse = inHouse
	if inHouse && !title.Completed {
		note := "Title received in-house"
		e.applyCompletion(&title.Completed, &title.CompletedAt, &title.Notes, true, &note)
	}
	return nil
}

func (e *Engine) applyCompletion(done *bool, at **time.Time, stored *string, completed bool, notes *string) {
	switch {
	case completed && !*done:
		*done = true
		if *at == nil {
			now := e.now()
			*at = &now
		}
	case !completed && *done:
		*done = false
		*at = nil
		*stored = ""
	}
	if notes != nil {
		*stored = *notes
	}
}
