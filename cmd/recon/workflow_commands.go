package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpggio/recontrack/internal/app"
	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
)

type vehicleMutation func(ctx context.Context, svc *app.Services, stock string) (*vehicle.Vehicle, error)

// applyEach runs apply for every stock number. Several stock numbers share one
// batch id so the timeline groups them. Failures do not stop the remaining
// vehicles; they are joined into the returned error.
func (c *commandContext) applyEach(cmd *cobra.Command, stocks []string, apply vehicleMutation) error {
	ctx := cmd.Context()
	if len(stocks) > 1 {
		ctx = activity.WithBatch(ctx, uuid.NewString())
	}
	return c.withServices(ctx, func(svc *app.Services) error {
		updated := make([]vehicle.Vehicle, 0, len(stocks))
		var errs []error
		for _, stock := range stocks {
			v, err := apply(ctx, svc, stock)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", stock, err))
				continue
			}
			updated = append(updated, *v)
		}
		if c.jsonOut {
			if err := writeJSON(cmd, updated); err != nil {
				return err
			}
		} else if len(updated) > 0 {
			printVehicles(cmd, updated, svc.Vehicles.Now())
		}
		return errors.Join(errs...)
	})
}

func optionalNotes(cmd *cobra.Command, notes string) *string {
	if !cmd.Flags().Changed("notes") {
		return nil
	}
	return &notes
}

func newStageCommand(ctx *commandContext) *cobra.Command {
	var (
		undo  bool
		notes string
	)
	cmd := &cobra.Command{
		Use:   "stage <stage> <stock-number>...",
		Short: "Mark a stage complete (or incomplete with --undo)",
		Long: "Mark a workflow stage complete for one or more vehicles.\n\n" +
			"Stages: new-arrival, mechanical, detailing, photos, title, sold.\n" +
			"Lot Ready is reached with the lot-ready command.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := workflow.ParseStage(args[0])
			if err != nil {
				return err
			}
			n := optionalNotes(cmd, notes)
			return ctx.applyEach(cmd, args[1:], func(c context.Context, svc *app.Services, stock string) (*vehicle.Vehicle, error) {
				return svc.Vehicles.SetStage(c, stock, stage, !undo, n)
			})
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the stage incomplete")
	cmd.Flags().StringVar(&notes, "notes", "", "Replace the stage notes")
	return cmd
}

func newSubStepCommand(ctx *commandContext) *cobra.Command {
	var (
		undo  bool
		notes string
	)
	cmd := &cobra.Command{
		Use:   "substep <substep> <stock-number>...",
		Short: "Mark a Mechanical sub-step complete",
		Long: "Mark a Mechanical sub-step complete for one or more vehicles.\n\n" +
			"Sub-steps: email-sent, vehicle-pickup, vehicle-returned.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := workflow.ParseSubStep(args[0])
			if err != nil {
				return err
			}
			n := optionalNotes(cmd, notes)
			return ctx.applyEach(cmd, args[1:], func(c context.Context, svc *app.Services, stock string) (*vehicle.Vehicle, error) {
				return svc.Vehicles.SetSubStep(c, stock, id, !undo, n)
			})
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the sub-step incomplete")
	cmd.Flags().StringVar(&notes, "notes", "", "Replace the sub-step notes")
	return cmd
}

func newTitleCommand(ctx *commandContext) *cobra.Command {
	var out bool
	cmd := &cobra.Command{
		Use:   "title <stock-number>...",
		Short: "Record the title as in-house (or out with --out)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.applyEach(cmd, args, func(c context.Context, svc *app.Services, stock string) (*vehicle.Vehicle, error) {
				return svc.Vehicles.SetTitleInHouse(c, stock, !out)
			})
		},
	}
	cmd.Flags().BoolVar(&out, "out", false, "Title is not in-house")
	return cmd
}

type eligibilityResult struct {
	StockNumber string `json:"stock_number"`
	workflow.Eligibility
}

func newLotReadyCommand(ctx *commandContext) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "lot-ready <stock-number>...",
		Short: "Advance vehicles to Lot Ready",
		Long: "Advance vehicles to Lot Ready. Mechanical, Detailing and Photos must be\n" +
			"complete and the title in-house. Use --check to report without changing anything.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if check {
				return ctx.checkLotReady(cmd, args)
			}
			return ctx.applyEach(cmd, args, func(c context.Context, svc *app.Services, stock string) (*vehicle.Vehicle, error) {
				return svc.Vehicles.AdvanceToLotReady(c, stock)
			})
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Only report eligibility")
	return cmd
}

func (c *commandContext) checkLotReady(cmd *cobra.Command, stocks []string) error {
	return c.withServices(cmd.Context(), func(svc *app.Services) error {
		results := make([]eligibilityResult, 0, len(stocks))
		var errs []error
		for _, stock := range stocks {
			e, err := svc.Vehicles.CheckLotReady(cmd.Context(), stock)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", stock, err))
				continue
			}
			results = append(results, eligibilityResult{StockNumber: stock, Eligibility: e})
		}
		if c.jsonOut {
			if err := writeJSON(cmd, results); err != nil {
				return err
			}
			return errors.Join(errs...)
		}
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			state := "eligible"
			if !r.Eligible {
				state = "missing " + joinStages(r.Missing)
			}
			rows = append(rows, []string{r.StockNumber, state})
		}
		if len(rows) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Stock #", "Lot Ready"}, rows, nil))
		}
		return errors.Join(errs...)
	})
}

func newSoldCommand(ctx *commandContext) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "sold <stock-number>...",
		Short: "Mark vehicles sold",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := optionalNotes(cmd, notes)
			return ctx.applyEach(cmd, args, func(c context.Context, svc *app.Services, stock string) (*vehicle.Vehicle, error) {
				return svc.Vehicles.MarkSold(c, stock, n)
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "Sale notes")
	return cmd
}

func joinStages(stages []workflow.Stage) string {
	out := ""
	for i, stage := range stages {
		if i > 0 {
			out += ", "
		}
		out += string(stage)
	}
	return out
}
