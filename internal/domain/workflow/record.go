package workflow

import "time"

// SubStepRecord is the completion state of one Mechanical sub-step.
type SubStepRecord struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Notes       string     `json:"notes,omitempty"`
}

// StageRecord is the completion state of one stage. TitleInHouse is only
// meaningful on Title and SubSteps is only populated on Mechanical.
type StageRecord struct {
	Completed    bool                      `json:"completed"`
	CompletedAt  *time.Time                `json:"completedAt"`
	Notes        string                    `json:"notes,omitempty"`
	TitleInHouse bool                      `json:"titleInHouse,omitempty"`
	SubSteps     map[SubStep]SubStepRecord `json:"subSteps,omitempty"`
}

// Record is a vehicle's workflow: one StageRecord for every Stage.
//
// Records are obtained through Engine.GetOrInit or by decoding persisted JSON;
// both paths guarantee every stage (and every Mechanical sub-step) is present.
type Record struct {
	stages map[Stage]*StageRecord
}

func newRecord(intake time.Time) *Record {
	r := &Record{stages: make(map[Stage]*StageRecord, len(allStages))}
	for _, stage := range allStages {
		r.stages[stage] = &StageRecord{}
	}
	arrived := intake
	r.stages[StageNewArrival].Completed = true
	r.stages[StageNewArrival].CompletedAt = &arrived
	r.stages[StageNewArrival].Notes = "Vehicle received at lot"
	r.stages[StageMechanical].SubSteps = defaultSubSteps()
	return r
}

func defaultSubSteps() map[SubStep]SubStepRecord {
	subs := make(map[SubStep]SubStepRecord, len(allSubSteps))
	for _, id := range allSubSteps {
		subs[id] = SubStepRecord{}
	}
	return subs
}

// Stage returns a copy of the record for stage.
func (r *Record) Stage(stage Stage) (StageRecord, error) {
	rec, err := r.lookup(stage)
	if err != nil {
		return StageRecord{}, err
	}
	return rec.clone(), nil
}

// SubStep returns a copy of the record for a Mechanical sub-step.
func (r *Record) SubStep(id SubStep) (SubStepRecord, error) {
	if !id.Valid() {
		return SubStepRecord{}, &InvalidSubStepError{Value: string(id)}
	}
	mech, err := r.lookup(StageMechanical)
	if err != nil {
		return SubStepRecord{}, err
	}
	return mech.SubSteps[id], nil
}

// IsCompleted reports whether stage is complete. Unknown stages are never complete.
func (r *Record) IsCompleted(stage Stage) bool {
	rec, err := r.lookup(stage)
	return err == nil && rec.Completed
}

// TitleInHouse reports whether the title document is physically in-house.
func (r *Record) TitleInHouse() bool {
	rec, err := r.lookup(StageTitle)
	return err == nil && rec.TitleInHouse
}

// CompletedCount returns how many of the seven stages are complete.
func (r *Record) CompletedCount() int {
	n := 0
	for _, stage := range allStages {
		if r.IsCompleted(stage) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := &Record{stages: make(map[Stage]*StageRecord, len(r.stages))}
	for stage, rec := range r.stages {
		c := rec.clone()
		cp.stages[stage] = &c
	}
	return cp
}

func (r *Record) lookup(stage Stage) (*StageRecord, error) {
	if !stage.Valid() {
		return nil, &InvalidStageError{Value: string(stage)}
	}
	if r == nil || r.stages[stage] == nil {
		return nil, &InconsistentStateError{Stage: stage, Reason: "workflow record is not initialized"}
	}
	return r.stages[stage], nil
}

func (r *Record) allSubStepsCompleted() bool {
	mech := r.mechanical()
	if mech == nil {
		return false
	}
	for _, id := range allSubSteps {
		if !mech.SubSteps[id].Completed {
			return false
		}
	}
	return true
}

func (r *Record) anySubStepCompleted() bool {
	mech := r.mechanical()
	if mech == nil {
		return false
	}
	for _, id := range allSubSteps {
		if mech.SubSteps[id].Completed {
			return true
		}
	}
	return false
}

func (r *Record) mechanical() *StageRecord {
	if r == nil {
		return nil
	}
	return r.stages[StageMechanical]
}

func (s StageRecord) clone() StageRecord {
	cp := s
	cp.CompletedAt = cloneTime(s.CompletedAt)
	if s.SubSteps != nil {
		cp.SubSteps = make(map[SubStep]SubStepRecord, len(s.SubSteps))
		for id, sub := range s.SubSteps {
			sub.CompletedAt = cloneTime(sub.CompletedAt)
			cp.SubSteps[id] = sub
		}
	}
	return cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
