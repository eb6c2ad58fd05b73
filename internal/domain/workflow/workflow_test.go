package workflow_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/stretchr/testify/require"
)

type testVehicle struct {
	workflow *workflow.Record
	status   workflow.Stage
	dateIn   time.Time
	dateOut  *time.Time
}

func (v *testVehicle) WorkflowRecord() *workflow.Record   { return v.workflow }
func (v *testVehicle) AttachWorkflow(rec *workflow.Record) { v.workflow = rec }
func (v *testVehicle) IntakeDate() time.Time               { return v.dateIn }
func (v *testVehicle) SetStatus(status workflow.Stage)     { v.status = status }
func (v *testVehicle) SetDateOut(t time.Time)              { v.dateOut = &t }

var (
	intakeDate = time.Date(2025, 5, 19, 9, 0, 0, 0, time.UTC)
	fixedNow   = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
)

func newEngine() *workflow.Engine {
	return workflow.NewEngine(func() time.Time { return fixedNow })
}

func newVehicle(t *testing.T, engine *workflow.Engine) (*testVehicle, *workflow.Record) {
	t.Helper()
	v := &testVehicle{dateIn: intakeDate}
	rec := engine.GetOrInit(v)
	engine.Refresh(v)
	return v, rec
}

func completeAllSubSteps(t *testing.T, engine *workflow.Engine, rec *workflow.Record) {
	t.Helper()
	for _, id := range workflow.SubSteps() {
		require.NoError(t, engine.SetSubStepCompletion(rec, id, true, nil))
	}
}

func readyForLot(t *testing.T, engine *workflow.Engine, rec *workflow.Record) {
	t.Helper()
	completeAllSubSteps(t, engine, rec)
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, true, nil))
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StagePhotos, true, nil))
	require.NoError(t, engine.SetTitleInHouse(rec, true))
}

func TestGetOrInit_NewVehicle(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)

	arrival, err := rec.Stage(workflow.StageNewArrival)
	require.NoError(t, err)
	require.True(t, arrival.Completed)
	require.NotNil(t, arrival.CompletedAt)
	require.Equal(t, intakeDate, *arrival.CompletedAt)

	for _, stage := range workflow.Stages()[1:] {
		require.False(t, rec.IsCompleted(stage), stage)
	}
	for _, id := range workflow.SubSteps() {
		sub, err := rec.SubStep(id)
		require.NoError(t, err)
		require.False(t, sub.Completed)
	}
	require.Equal(t, workflow.StageNewArrival, workflow.DeriveStatus(rec))
	require.Equal(t, workflow.StageNewArrival, v.status)
}

func TestGetOrInit_Idempotent(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, true, nil))

	before := rec.Clone()
	again := engine.GetOrInit(v)
	require.Same(t, rec, again)
	require.Equal(t, before, again)
	require.True(t, again.IsCompleted(workflow.StageDetailing))
}

func TestGetOrInit_ZeroIntakeUsesClock(t *testing.T) {
	engine := newEngine()
	v := &testVehicle{}
	rec := engine.GetOrInit(v)

	arrival, err := rec.Stage(workflow.StageNewArrival)
	require.NoError(t, err)
	require.Equal(t, fixedNow, *arrival.CompletedAt)
}

func TestSubSteps_PartialKeepsMechanicalOpen(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)

	require.NoError(t, engine.SetSubStepCompletion(rec, workflow.SubStepEmailSent, true, nil))
	require.NoError(t, engine.SetSubStepCompletion(rec, workflow.SubStepPickedUp, true, nil))

	require.False(t, rec.IsCompleted(workflow.StageMechanical))
	require.Equal(t, workflow.StageMechanical, engine.Refresh(v))
	require.Equal(t, workflow.StageMechanical, v.status)
}

func TestSubSteps_AutoPropagation(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)

	completeAllSubSteps(t, engine, rec)
	mech, err := rec.Stage(workflow.StageMechanical)
	require.NoError(t, err)
	require.True(t, mech.Completed)
	require.Equal(t, fixedNow, *mech.CompletedAt)
	require.Equal(t, "All mechanical work completed", mech.Notes)

	require.NoError(t, engine.SetSubStepCompletion(rec, workflow.SubStepPickedUp, false, nil))
	mech, err = rec.Stage(workflow.StageMechanical)
	require.NoError(t, err)
	require.False(t, mech.Completed)
	require.Nil(t, mech.CompletedAt)

	sub, err := rec.SubStep(workflow.SubStepPickedUp)
	require.NoError(t, err)
	require.False(t, sub.Completed)
	require.Nil(t, sub.CompletedAt)
}

func TestSubSteps_InvariantHoldsForEverySequence(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)

	steps := []struct {
		id        workflow.SubStep
		completed bool
	}{
		{workflow.SubStepServiceCompleted, true},
		{workflow.SubStepEmailSent, true},
		{workflow.SubStepEmailSent, true},
		{workflow.SubStepPickedUp, true},
		{workflow.SubStepServiceCompleted, false},
		{workflow.SubStepServiceCompleted, true},
		{workflow.SubStepEmailSent, false},
		{workflow.SubStepEmailSent, false},
	}
	for _, step := range steps {
		require.NoError(t, engine.SetSubStepCompletion(rec, step.id, step.completed, nil))

		all := true
		for _, id := range workflow.SubSteps() {
			sub, err := rec.SubStep(id)
			require.NoError(t, err)
			all = all && sub.Completed
		}
		require.Equal(t, all, rec.IsCompleted(workflow.StageMechanical))
	}
}

func TestSetStageCompletion_StampsAndClears(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)

	note := "Full interior detail"
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, true, &note))
	detailing, err := rec.Stage(workflow.StageDetailing)
	require.NoError(t, err)
	require.True(t, detailing.Completed)
	require.Equal(t, fixedNow, *detailing.CompletedAt)
	require.Equal(t, note, detailing.Notes)

	// unchanged completion only updates notes
	updated := "Interior and engine bay"
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, true, &updated))
	detailing, err = rec.Stage(workflow.StageDetailing)
	require.NoError(t, err)
	require.Equal(t, fixedNow, *detailing.CompletedAt)
	require.Equal(t, updated, detailing.Notes)

	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, false, nil))
	detailing, err = rec.Stage(workflow.StageDetailing)
	require.NoError(t, err)
	require.False(t, detailing.Completed)
	require.Nil(t, detailing.CompletedAt)
	require.Empty(t, detailing.Notes)
}

func TestSetStageCompletion_MechanicalContradictingSubSteps(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)

	err := engine.SetStageCompletion(rec, workflow.StageMechanical, true, nil)
	require.ErrorIs(t, err, workflow.ErrInconsistentState)
	var inconsistent *workflow.InconsistentStateError
	require.True(t, errors.As(err, &inconsistent))
	require.Equal(t, workflow.StageMechanical, inconsistent.Stage)
	require.False(t, rec.IsCompleted(workflow.StageMechanical))

	completeAllSubSteps(t, engine, rec)
	err = engine.SetStageCompletion(rec, workflow.StageMechanical, false, nil)
	require.ErrorIs(t, err, workflow.ErrInconsistentState)
	require.True(t, rec.IsCompleted(workflow.StageMechanical))

	// matching request is allowed and only touches notes
	note := "Brakes and rotors"
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageMechanical, true, &note))
	mech, err := rec.Stage(workflow.StageMechanical)
	require.NoError(t, err)
	require.Equal(t, note, mech.Notes)
}

func TestSetStageCompletion_LotReadyOnlyThroughGate(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)
	readyForLot(t, engine, rec)

	err := engine.SetStageCompletion(rec, workflow.StageLotReady, true, nil)
	require.ErrorIs(t, err, workflow.ErrInconsistentState)
	require.False(t, rec.IsCompleted(workflow.StageLotReady))

	require.NoError(t, engine.AdvanceToLotReady(v, rec))
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageLotReady, false, nil))
	require.False(t, rec.IsCompleted(workflow.StageLotReady))
	require.Equal(t, workflow.StageTitle, engine.Refresh(v))
}

func TestInvalidIdentifiers(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)

	err := engine.SetStageCompletion(rec, workflow.Stage("Paint"), true, nil)
	require.ErrorIs(t, err, workflow.ErrInvalidStage)
	var invalidStage *workflow.InvalidStageError
	require.True(t, errors.As(err, &invalidStage))
	require.Equal(t, "Paint", invalidStage.Value)

	err = engine.SetSubStepCompletion(rec, workflow.SubStep("alignment"), true, nil)
	require.ErrorIs(t, err, workflow.ErrInvalidSubStep)

	_, err = rec.Stage(workflow.Stage(""))
	require.ErrorIs(t, err, workflow.ErrInvalidStage)

	_, err = rec.SubStep(workflow.SubStep("x"))
	require.ErrorIs(t, err, workflow.ErrInvalidSubStep)
}

func TestSetTitleInHouse(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)

	require.NoError(t, engine.SetTitleInHouse(rec, true))
	title, err := rec.Stage(workflow.StageTitle)
	require.NoError(t, err)
	require.True(t, title.TitleInHouse)
	require.True(t, title.Completed)
	require.Equal(t, fixedNow, *title.CompletedAt)
	require.Equal(t, "Title received in-house", title.Notes)

	require.NoError(t, engine.SetTitleInHouse(rec, false))
	title, err = rec.Stage(workflow.StageTitle)
	require.NoError(t, err)
	require.False(t, title.TitleInHouse)
	require.True(t, title.Completed)
}

func TestDeriveStatus_Progression(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)

	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, true, nil))
	require.Equal(t, workflow.StageMechanical, engine.Refresh(v))

	completeAllSubSteps(t, engine, rec)
	require.Equal(t, workflow.StagePhotos, engine.Refresh(v))

	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, false, nil))
	require.Equal(t, workflow.StageDetailing, engine.Refresh(v))

	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, true, nil))
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StagePhotos, true, nil))
	require.Equal(t, workflow.StageTitle, engine.Refresh(v))

	// eligible but not advanced still reports Title
	require.NoError(t, engine.SetTitleInHouse(rec, true))
	require.Equal(t, workflow.StageTitle, engine.Refresh(v))

	require.NoError(t, engine.AdvanceToLotReady(v, rec))
	require.Equal(t, workflow.StageLotReady, engine.Refresh(v))

	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageSold, true, nil))
	require.Equal(t, workflow.StageSold, engine.Refresh(v))
}

func TestDeriveStatus_TitleInHouseAloneMeansMechanical(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)

	require.NoError(t, engine.SetTitleInHouse(rec, true))
	require.Equal(t, workflow.StageMechanical, workflow.DeriveStatus(rec))
}

func TestDeriveStatus_NilRecord(t *testing.T) {
	require.Equal(t, workflow.StageNewArrival, workflow.DeriveStatus(nil))
}

func TestGate_TitleNotInHouse(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)
	completeAllSubSteps(t, engine, rec)
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, true, nil))
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StagePhotos, true, nil))

	gate := workflow.IsEligibleForLotReady(rec)
	require.False(t, gate.Eligible)
	require.Equal(t, []workflow.Stage{workflow.StageTitle}, gate.Missing)
	require.Equal(t, workflow.StageTitle, engine.Refresh(v))
}

func TestGate_MissingInPipelineOrder(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)

	gate := workflow.IsEligibleForLotReady(rec)
	require.False(t, gate.Eligible)
	require.Equal(t, []workflow.Stage{
		workflow.StageMechanical,
		workflow.StageDetailing,
		workflow.StagePhotos,
		workflow.StageTitle,
	}, gate.Missing)
}

func TestAdvanceToLotReady_Eligible(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)
	readyForLot(t, engine, rec)

	gate := workflow.IsEligibleForLotReady(rec)
	require.True(t, gate.Eligible)
	require.Empty(t, gate.Missing)

	require.NoError(t, engine.AdvanceToLotReady(v, rec))
	lot, err := rec.Stage(workflow.StageLotReady)
	require.NoError(t, err)
	require.True(t, lot.Completed)
	require.Equal(t, fixedNow, *lot.CompletedAt)
	require.Equal(t, "Moved to lot ready - all requirements met", lot.Notes)
	require.Equal(t, workflow.StageLotReady, v.status)
	require.NotNil(t, v.dateOut)
	require.Equal(t, fixedNow, *v.dateOut)
}

func TestAdvanceToLotReady_SecondCallIsNoop(t *testing.T) {
	now := fixedNow
	engine := workflow.NewEngine(func() time.Time { return now })
	v, rec := newVehicle(t, engine)
	readyForLot(t, engine, rec)
	require.NoError(t, engine.AdvanceToLotReady(v, rec))

	before := rec.Clone()
	now = fixedNow.Add(48 * time.Hour)
	require.NoError(t, engine.AdvanceToLotReady(v, rec))
	require.Equal(t, before, rec)
	require.Equal(t, fixedNow, *v.dateOut)
	require.Equal(t, workflow.StageLotReady, v.status)
}

func TestAdvanceToLotReady_SoldKeepsDateOut(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)
	readyForLot(t, engine, rec)
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageSold, true, nil))
	soldOn := time.Date(2025, 5, 25, 16, 0, 0, 0, time.UTC)
	v.dateOut = &soldOn
	engine.Refresh(v)

	require.NoError(t, engine.AdvanceToLotReady(v, rec))
	require.True(t, rec.IsCompleted(workflow.StageLotReady))
	require.Equal(t, workflow.StageSold, v.status)
	require.Equal(t, soldOn, *v.dateOut)
}

func TestAdvanceToLotReady_Ineligible(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)
	completeAllSubSteps(t, engine, rec)
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, true, nil))
	require.NoError(t, engine.SetTitleInHouse(rec, true))
	engine.Refresh(v)

	before := rec.Clone()
	err := engine.AdvanceToLotReady(v, rec)
	require.ErrorIs(t, err, workflow.ErrIneligible)
	var ineligible *workflow.IneligibleError
	require.True(t, errors.As(err, &ineligible))
	require.Equal(t, []workflow.Stage{workflow.StagePhotos}, ineligible.Missing)
	require.Contains(t, err.Error(), "Photos")

	require.False(t, rec.IsCompleted(workflow.StageLotReady))
	require.Equal(t, before, rec)
	require.Equal(t, workflow.StagePhotos, v.status)
	require.Nil(t, v.dateOut)
}

func TestIneligibleError_TitleLabel(t *testing.T) {
	err := &workflow.IneligibleError{Missing: []workflow.Stage{workflow.StageDetailing, workflow.StageTitle}}
	require.Equal(t, "not eligible for lot ready: missing Detailing, Title In-House", err.Error())
}

func TestJSON_RoundTrip(t *testing.T) {
	engine := newEngine()
	v, rec := newVehicle(t, engine)
	readyForLot(t, engine, rec)
	note := "Interior shampoo"
	require.NoError(t, engine.SetStageCompletion(rec, workflow.StageDetailing, true, &note))
	require.NoError(t, engine.AdvanceToLotReady(v, rec))

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded workflow.Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, rec, &decoded)
}

func TestJSON_RoundTripFreshRecord(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)
	require.NoError(t, engine.SetSubStepCompletion(rec, workflow.SubStepEmailSent, true, nil))

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded workflow.Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, rec, &decoded)
}

func TestJSON_Shape(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 7)

	arrival := raw["New Arrival"]
	require.Equal(t, true, arrival["completed"])
	require.Equal(t, "2025-05-19T09:00:00Z", arrival["completedAt"])
	require.Equal(t, "Vehicle received at lot", arrival["notes"])
	require.NotContains(t, arrival, "subSteps")
	require.NotContains(t, arrival, "titleInHouse")

	require.Contains(t, raw["Title"], "titleInHouse")
	require.Nil(t, raw["Photos"]["completedAt"])

	subs, ok := raw["Mechanical"]["subSteps"].(map[string]any)
	require.True(t, ok)
	require.Len(t, subs, 3)
	require.Contains(t, subs, "email-sent")
	require.Contains(t, subs, "vehicle-pickup")
	require.Contains(t, subs, "vehicle-returned")
}

func TestJSON_LegacyRecord(t *testing.T) {
	legacy := `{
		"Mechanical": {
			"completed": false,
			"subSteps": {
				"email-sent": {"completed": true, "date": "2025-05-20"},
				"in-service": {"completed": true, "date": "2025-05-21"},
				"completed": {"completed": true, "date": "2025-05-23"}
			}
		},
		"Detailing": {"completed": true, "date": "2025-05-24", "notes": "Exterior only"},
		"Title": {"completed": true, "inHouse": true}
	}`

	var rec workflow.Record
	require.NoError(t, json.Unmarshal([]byte(legacy), &rec))

	require.True(t, rec.IsCompleted(workflow.StageNewArrival))
	require.False(t, rec.IsCompleted(workflow.StagePhotos))
	require.True(t, rec.TitleInHouse())

	mech, err := rec.Stage(workflow.StageMechanical)
	require.NoError(t, err)
	require.True(t, mech.Completed)
	require.Equal(t, time.Date(2025, 5, 23, 0, 0, 0, 0, time.UTC), *mech.CompletedAt)

	pickup, err := rec.SubStep(workflow.SubStepPickedUp)
	require.NoError(t, err)
	require.True(t, pickup.Completed)

	detailing, err := rec.Stage(workflow.StageDetailing)
	require.NoError(t, err)
	require.Equal(t, "Exterior only", detailing.Notes)
	require.Equal(t, time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC), *detailing.CompletedAt)

	require.Equal(t, workflow.StagePhotos, workflow.DeriveStatus(&rec))
}

func TestJSON_MechanicalWithoutSubSteps(t *testing.T) {
	var rec workflow.Record
	require.NoError(t, json.Unmarshal([]byte(`{"Mechanical": {"completed": true, "completedAt": "2025-05-22T10:00:00Z"}}`), &rec))

	for _, id := range workflow.SubSteps() {
		sub, err := rec.SubStep(id)
		require.NoError(t, err)
		require.True(t, sub.Completed)
	}
	require.Equal(t, workflow.StageDetailing, workflow.DeriveStatus(&rec))
}

func TestJSON_MechanicalFollowsIncompleteSubSteps(t *testing.T) {
	data := `{"Mechanical": {"completed": true, "completedAt": "2025-05-22T10:00:00Z", "subSteps": {"email-sent": {"completed": true}}}}`

	var rec workflow.Record
	require.NoError(t, json.Unmarshal([]byte(data), &rec))
	require.False(t, rec.IsCompleted(workflow.StageMechanical))
	require.Equal(t, workflow.StageMechanical, workflow.DeriveStatus(&rec))
}

func TestJSON_UnknownKeys(t *testing.T) {
	var rec workflow.Record
	err := json.Unmarshal([]byte(`{"Paint": {"completed": true}}`), &rec)
	require.ErrorIs(t, err, workflow.ErrInvalidStage)

	err = json.Unmarshal([]byte(`{"Mechanical": {"subSteps": {"alignment": {"completed": true}}}}`), &rec)
	require.ErrorIs(t, err, workflow.ErrInvalidSubStep)

	err = json.Unmarshal([]byte(`{"Photos": {"completed": true, "completedAt": "yesterday"}}`), &rec)
	require.Error(t, err)
}

func TestJSON_DuplicateAliasedKeys(t *testing.T) {
	var rec workflow.Record
	err := json.Unmarshal([]byte(`{"Lot Ready": {"completed": true}, "lot-ready": {"completed": false}}`), &rec)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate stage")

	err = json.Unmarshal([]byte(`{"Mechanical": {"subSteps": {
		"vehicle-returned": {"completed": true},
		"completed": {"completed": false}
	}}}`), &rec)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate sub-step")
}

func TestParseStage(t *testing.T) {
	cases := map[string]workflow.Stage{
		"New Arrival": workflow.StageNewArrival,
		"new-arrival": workflow.StageNewArrival,
		"lot_ready":   workflow.StageLotReady,
		"LOTREADY":    workflow.StageLotReady,
		" title ":     workflow.StageTitle,
		"sold":        workflow.StageSold,
	}
	for input, want := range cases {
		got, err := workflow.ParseStage(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}

	_, err := workflow.ParseStage("Body Shop")
	require.ErrorIs(t, err, workflow.ErrInvalidStage)
}

func TestParseSubStep(t *testing.T) {
	cases := map[string]workflow.SubStep{
		"email-sent":        workflow.SubStepEmailSent,
		"vehicle-pickup":    workflow.SubStepPickedUp,
		"picked-up":         workflow.SubStepPickedUp,
		"in-service":        workflow.SubStepPickedUp,
		"vehicle-returned":  workflow.SubStepServiceCompleted,
		"service_completed": workflow.SubStepServiceCompleted,
		"completed":         workflow.SubStepServiceCompleted,
	}
	for input, want := range cases {
		got, err := workflow.ParseSubStep(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}

	_, err := workflow.ParseSubStep("alignment")
	require.ErrorIs(t, err, workflow.ErrInvalidSubStep)
}

func TestStageHelpers(t *testing.T) {
	stages := workflow.Stages()
	require.Len(t, stages, 7)
	for i, stage := range stages {
		require.Equal(t, i, stage.Index())
	}
	require.Equal(t, -1, workflow.Stage("Paint").Index())
	require.Equal(t, "lot-ready", workflow.StageLotReady.Slug())
	require.True(t, workflow.StageTitle.InRecon())
	require.False(t, workflow.StageLotReady.InRecon())
	require.False(t, workflow.StageSold.InRecon())

	stages[0] = workflow.StageSold
	require.Equal(t, workflow.StageNewArrival, workflow.Stages()[0])
}

func TestCompletedCountAndClone(t *testing.T) {
	engine := newEngine()
	_, rec := newVehicle(t, engine)
	require.Equal(t, 1, rec.CompletedCount())

	snapshot := rec.Clone()
	completeAllSubSteps(t, engine, rec)
	require.Equal(t, 2, rec.CompletedCount())
	require.Equal(t, 1, snapshot.CompletedCount())
	require.False(t, snapshot.IsCompleted(workflow.StageMechanical))
}
