package workflow

// DeriveStatus computes the single display status for a workflow.
//
// Lot Ready is reported only once the explicit advance action has completed
// it. A vehicle that satisfies the gate but has not been advanced stays in
// Title.
func DeriveStatus(rec *Record) Stage {
	if rec == nil {
		return StageNewArrival
	}

	mechanical := rec.IsCompleted(StageMechanical)
	detailing := rec.IsCompleted(StageDetailing)
	photos := rec.IsCompleted(StagePhotos)

	switch {
	case rec.IsCompleted(StageSold):
		return StageSold
	case rec.IsCompleted(StageLotReady):
		return StageLotReady
	case mechanical && detailing && photos:
		return StageTitle
	case mechanical && detailing:
		return StagePhotos
	case mechanical:
		return StageDetailing
	case rec.anySubStepCompleted() || hasProgressPastArrival(rec):
		return StageMechanical
	default:
		return StageNewArrival
	}
}

func hasProgressPastArrival(rec *Record) bool {
	return rec.IsCompleted(StageDetailing) ||
		rec.IsCompleted(StagePhotos) ||
		rec.IsCompleted(StageTitle) ||
		rec.TitleInHouse()
}
