package workflow

// Eligibility is the Lot Ready gate result.
type Eligibility struct {
	Eligible bool    `json:"eligible"`
	Missing  []Stage `json:"missing"`
}

// IsEligibleForLotReady checks Mechanical, Detailing and Photos completion
// plus the title being in-house. Missing lists the unmet ones in pipeline order.
func IsEligibleForLotReady(rec *Record) Eligibility {
	missing := []Stage{}
	for _, stage := range []Stage{StageMechanical, StageDetailing, StagePhotos} {
		if !rec.IsCompleted(stage) {
			missing = append(missing, stage)
		}
	}
	if !rec.TitleInHouse() {
		missing = append(missing, StageTitle)
	}
	return Eligibility{Eligible: len(missing) == 0, Missing: missing}
}

// AdvanceToLotReady is the only way to complete Lot Ready. It fails with an
// IneligibleError and changes nothing when the gate is not satisfied. A
// vehicle that is already Lot Ready is left as is, and a sold vehicle keeps
// its date out.
func (e *Engine) AdvanceToLotReady(v Vehicle, rec *Record) error {
	lot, err := rec.lookup(StageLotReady)
	if err != nil {
		return err
	}
	if lot.Completed {
		v.SetStatus(DeriveStatus(rec))
		return nil
	}

	gate := IsEligibleForLotReady(rec)
	if !gate.Eligible {
		return &IneligibleError{Missing: gate.Missing}
	}

	now := e.now()
	lot.Completed = true
	lot.CompletedAt = &now
	lot.Notes = "Moved to lot ready - all requirements met"
	v.SetStatus(DeriveStatus(rec))
	if !rec.IsCompleted(StageSold) {
		v.SetDateOut(now)
	}
	return nil
}

func gateLabel(stage Stage) string {
	if stage == StageTitle {
		return "Title In-House"
	}
	return string(stage)
}
