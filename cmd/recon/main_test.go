package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/rpggio/recontrack/internal/report"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data", "recon.db")
}

func runCLI(t *testing.T, dbPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func runJSON[T any](t *testing.T, dbPath string, args ...string) T {
	t.Helper()
	out, _, err := runCLI(t, dbPath, append([]string{"--json"}, args...)...)
	require.NoError(t, err, "recon %s", strings.Join(args, " "))
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func intake(t *testing.T, dbPath, stock string, extra ...string) {
	t.Helper()
	args := append([]string{"intake", stock, "--year", "2019", "--make", "honda", "--model", "civic"}, extra...)
	_, _, err := runCLI(t, dbPath, args...)
	require.NoError(t, err)
}

func TestIntakeAndShow(t *testing.T) {
	db := newTestDB(t)

	out, _, err := runCLI(t, db, "intake", "A100", "--year", "2019", "--make", "honda", "--model", "civic", "--color", "blue", "--date-in", "2025-05-26")
	require.NoError(t, err)
	assert.Contains(t, out, "A100")
	assert.Contains(t, out, "2019 Honda Civic")
	assert.Contains(t, out, "New Arrival")

	shown := runJSON[showResult](t, db, "show", "a100")
	require.NotNil(t, shown.Vehicle)
	assert.Equal(t, "A100", shown.Vehicle.StockNumber)
	assert.Equal(t, "Blue", shown.Vehicle.Color)
	assert.False(t, shown.Eligibility.Eligible)
	assert.Equal(t, []workflow.Stage{workflow.StageMechanical, workflow.StageDetailing, workflow.StagePhotos, workflow.StageTitle}, shown.Eligibility.Missing)
	require.Len(t, shown.Timeline, 1)
	assert.Equal(t, activity.TypeIntake, shown.Timeline[0].ActivityType)

	out, _, err = runCLI(t, db, "show", "A100")
	require.NoError(t, err)
	assert.Contains(t, out, "Email to Service Manager")
	assert.Contains(t, out, "Lot Ready: missing Mechanical, Detailing, Photos, Title")
}

func TestIntake_Errors(t *testing.T) {
	db := newTestDB(t)
	intake(t, db, "A100")

	_, _, err := runCLI(t, db, "intake", "a100")
	assert.ErrorIs(t, err, vehicle.ErrDuplicateStockNumber)

	_, _, err = runCLI(t, db, "intake", "B200", "--vin", "short")
	assert.ErrorIs(t, err, vehicle.ErrInvalidInput)

	_, _, err = runCLI(t, db, "intake", "B200", "--date-in", "yesterday")
	assert.ErrorIs(t, err, vehicle.ErrInvalidInput)

	_, _, err = runCLI(t, db, "intake")
	assert.Error(t, err)
}

func TestWorkflowToLotReady(t *testing.T) {
	db := newTestDB(t)
	intake(t, db, "A100")

	_, _, err := runCLI(t, db, "lot-ready", "A100")
	var ineligible *workflow.IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Len(t, ineligible.Missing, 4)

	for _, sub := range []string{"email-sent", "vehicle-pickup", "vehicle-returned"} {
		_, _, err := runCLI(t, db, "substep", sub, "A100")
		require.NoError(t, err)
	}
	_, _, err = runCLI(t, db, "stage", "detailing", "A100", "--notes", "full detail")
	require.NoError(t, err)
	_, _, err = runCLI(t, db, "stage", "photos", "A100")
	require.NoError(t, err)

	checks := runJSON[[]eligibilityResult](t, db, "lot-ready", "--check", "A100")
	require.Len(t, checks, 1)
	assert.Equal(t, []workflow.Stage{workflow.StageTitle}, checks[0].Missing)

	_, _, err = runCLI(t, db, "title", "A100")
	require.NoError(t, err)

	updated := runJSON[[]vehicle.Vehicle](t, db, "lot-ready", "A100")
	require.Len(t, updated, 1)
	assert.Equal(t, workflow.StageLotReady, updated[0].Status)
	assert.NotNil(t, updated[0].DateOut)

	rec, err := updated[0].Workflow.Stage(workflow.StageDetailing)
	require.NoError(t, err)
	assert.Equal(t, "full detail", rec.Notes)

	sold := runJSON[[]vehicle.Vehicle](t, db, "sold", "A100", "--notes", "retail")
	require.Len(t, sold, 1)
	assert.Equal(t, workflow.StageSold, sold[0].Status)
}

func TestStage_Undo(t *testing.T) {
	db := newTestDB(t)
	intake(t, db, "A100")

	_, _, err := runCLI(t, db, "stage", "photos", "A100")
	require.NoError(t, err)

	updated := runJSON[[]vehicle.Vehicle](t, db, "stage", "photos", "A100", "--undo")
	require.Len(t, updated, 1)
	assert.False(t, updated[0].Workflow.IsCompleted(workflow.StagePhotos))
	assert.Equal(t, workflow.StageNewArrival, updated[0].Status)
}

func TestStage_InvalidArguments(t *testing.T) {
	db := newTestDB(t)
	intake(t, db, "A100")

	_, _, err := runCLI(t, db, "stage", "polish", "A100")
	assert.ErrorIs(t, err, workflow.ErrInvalidStage)

	_, _, err = runCLI(t, db, "substep", "wash", "A100")
	assert.ErrorIs(t, err, workflow.ErrInvalidSubStep)

	_, _, err = runCLI(t, db, "stage", "lot-ready", "A100")
	assert.Error(t, err)
}

func TestMultipleStocks_ShareBatchAndContinuePastFailures(t *testing.T) {
	db := newTestDB(t)
	intake(t, db, "A100")
	intake(t, db, "B200")

	out, _, err := runCLI(t, db, "--json", "stage", "photos", "A100", "MISSING", "B200")
	require.Error(t, err)
	assert.ErrorIs(t, err, vehicle.ErrVehicleNotFound)
	assert.Contains(t, err.Error(), "MISSING")

	var updated []vehicle.Vehicle
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	require.Len(t, updated, 2)

	a := runJSON[showResult](t, db, "show", "A100")
	b := runJSON[showResult](t, db, "show", "B200")
	require.NotEmpty(t, a.Timeline)
	require.NotEmpty(t, b.Timeline)
	assert.NotEmpty(t, a.Timeline[0].BatchID)
	assert.Equal(t, a.Timeline[0].BatchID, b.Timeline[0].BatchID)
}

func TestList(t *testing.T) {
	db := newTestDB(t)
	intake(t, db, "A100", "--date-in", "2025-05-01", "--detailer", "Sam")
	intake(t, db, "B200", "--date-in", "2025-05-10")
	_, _, err := runCLI(t, db, "stage", "photos", "B200")
	require.NoError(t, err)

	all := runJSON[[]vehicle.Vehicle](t, db, "list")
	require.Len(t, all, 2)
	assert.Equal(t, "A100", all[0].StockNumber)

	// Photos done out of order still counts as progress past arrival.
	started := runJSON[[]vehicle.Vehicle](t, db, "list", "--status", "mechanical")
	require.Len(t, started, 1)
	assert.Equal(t, "B200", started[0].StockNumber)

	fresh := runJSON[[]vehicle.Vehicle](t, db, "list", "--status", "new-arrival,lot-ready")
	require.Len(t, fresh, 1)
	assert.Equal(t, "A100", fresh[0].StockNumber)

	bySam := runJSON[[]vehicle.Vehicle](t, db, "list", "--detailer", "sam")
	require.Len(t, bySam, 1)
	assert.Equal(t, "A100", bySam[0].StockNumber)

	out, _, err := runCLI(t, db, "list", "--status", "sold")
	require.NoError(t, err)
	assert.Contains(t, out, "No vehicles")

	_, _, err = runCLI(t, db, "list", "--status", "painting")
	assert.ErrorIs(t, err, workflow.ErrInvalidStage)
}

func TestReport(t *testing.T) {
	db := newTestDB(t)
	intake(t, db, "A100", "--date-in", "2025-01-01")
	intake(t, db, "B200")

	rep := runJSON[report.Report](t, db, "report")
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 2, rep.InRecon)
	assert.Equal(t, workflow.StageNewArrival, rep.Bottleneck)
	require.Len(t, rep.Stale, 1)
	assert.Equal(t, "A100", rep.Stale[0].StockNumber)

	out, _, err := runCLI(t, db, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Bottleneck: New Arrival")
	assert.Contains(t, out, "Over 7 days in recon")
}

func TestExport(t *testing.T) {
	db := newTestDB(t)
	intake(t, db, "A100", "--date-in", "2025-05-01", "--notes", "needs tires, front")

	out, _, err := runCLI(t, db, "export")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Stock #,Year,Make,Model,Color,Status,Date In,Date Out,Detailer,Notes", lines[0])
	assert.Contains(t, lines[1], "A100,2019,Honda,Civic,,New Arrival,2025-05-01,,,")
	assert.Contains(t, lines[1], `"needs tires, front"`)

	path := filepath.Join(t.TempDir(), "inventory.csv")
	_, _, err = runCLI(t, db, "export", "--output", path)
	require.NoError(t, err)
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(written))
}
