package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/recontrack/internal/app"
	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
)

func newIntakeCommand(ctx *commandContext) *cobra.Command {
	var (
		req    vehicle.IntakeRequest
		dateIn string
	)
	cmd := &cobra.Command{
		Use:   "intake <stock-number>",
		Short: "Add a vehicle to inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.StockNumber = args[0]
			if dateIn != "" {
				t, err := vehicle.ParseDate(dateIn)
				if err != nil {
					return err
				}
				req.DateIn = &t
			}
			return ctx.withServices(cmd.Context(), func(svc *app.Services) error {
				v, err := svc.Vehicles.Intake(cmd.Context(), req)
				if err != nil {
					return err
				}
				if ctx.jsonOut {
					return writeJSON(cmd, v)
				}
				printVehicles(cmd, []vehicle.Vehicle{*v}, svc.Vehicles.Now())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.VIN, "vin", "", "17 character VIN")
	cmd.Flags().IntVar(&req.Year, "year", 0, "Model year")
	cmd.Flags().StringVar(&req.Make, "make", "", "Make")
	cmd.Flags().StringVar(&req.Model, "model", "", "Model")
	cmd.Flags().StringVar(&req.Color, "color", "", "Exterior color")
	cmd.Flags().StringVar(&req.Detailer, "detailer", "", "Detailer name")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Notes")
	cmd.Flags().StringVar(&dateIn, "date-in", "", "Intake date (YYYY-MM-DD or RFC 3339, default now)")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		statuses []string
		opts     vehicle.ListOptions
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory, oldest intake first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range statuses {
				stage, err := workflow.ParseStage(raw)
				if err != nil {
					return err
				}
				opts.Statuses = append(opts.Statuses, stage)
			}
			return ctx.withServices(cmd.Context(), func(svc *app.Services) error {
				list, err := svc.Vehicles.List(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if ctx.jsonOut {
					return writeJSON(cmd, list)
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No vehicles")
					return nil
				}
				printVehicles(cmd, list, svc.Vehicles.Now())
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (repeatable)")
	cmd.Flags().StringVar(&opts.Detailer, "detailer", "", "Filter by detailer name")
	cmd.Flags().BoolVar(&opts.InReconOnly, "in-recon", false, "Hide Lot Ready and Sold vehicles")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum rows")
	return cmd
}

type showResult struct {
	Vehicle     *vehicle.Vehicle     `json:"vehicle"`
	Eligibility workflow.Eligibility `json:"lot_ready"`
	Timeline    []activity.Entry     `json:"timeline"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var timelineLimit int
	cmd := &cobra.Command{
		Use:   "show <stock-number>",
		Short: "Show a vehicle's workflow and timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd.Context(), func(svc *app.Services) error {
				v, err := svc.Vehicles.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				timeline, err := svc.Vehicles.Timeline(cmd.Context(), v.StockNumber, timelineLimit)
				if err != nil {
					return err
				}
				result := showResult{
					Vehicle:     v,
					Eligibility: workflow.IsEligibleForLotReady(v.Workflow),
					Timeline:    timeline,
				}
				if ctx.jsonOut {
					return writeJSON(cmd, result)
				}
				printShow(cmd, result, svc.Vehicles.Now())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&timelineLimit, "timeline", 10, "Timeline entries to show")
	return cmd
}

func printShow(cmd *cobra.Command, r showResult, now time.Time) {
	out := cmd.OutOrStdout()
	v := r.Vehicle
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "%s  %s\n", v.StockNumber, v.Description())
	fmt.Fprintf(out, "Status:   %s\n", formatStatus(v.Status, colorize))
	if v.VIN != "" {
		fmt.Fprintf(out, "VIN:      %s\n", v.VIN)
	}
	if v.Color != "" {
		fmt.Fprintf(out, "Color:    %s\n", v.Color)
	}
	if v.Detailer != "" {
		fmt.Fprintf(out, "Detailer: %s\n", v.Detailer)
	}
	fmt.Fprintf(out, "Date in:  %s (%d days)\n", formatDate(&v.DateIn), vehicle.Age(v, now))
	if v.DateOut != nil {
		fmt.Fprintf(out, "Date out: %s\n", formatDate(v.DateOut))
	}
	if v.Notes != "" {
		fmt.Fprintf(out, "Notes:    %s\n", v.Notes)
	}
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(workflow.Stages())+len(workflow.SubSteps()))
	for _, stage := range workflow.Stages() {
		rec, err := v.Workflow.Stage(stage)
		if err != nil {
			continue
		}
		label := string(stage)
		if stage == workflow.StageTitle && v.Workflow.TitleInHouse() {
			label += " (in-house)"
		}
		rows = append(rows, []string{label, checkMark(rec.Completed), formatDate(rec.CompletedAt), rec.Notes})
		if stage != workflow.StageMechanical {
			continue
		}
		for _, id := range workflow.SubSteps() {
			sub, err := v.Workflow.SubStep(id)
			if err != nil {
				continue
			}
			rows = append(rows, []string{"  " + id.Label(), checkMark(sub.Completed), formatDate(sub.CompletedAt), sub.Notes})
		}
	}
	fmt.Fprintln(out, renderTable([]string{"Stage", "Done", "Completed", "Notes"}, rows, nil))

	if r.Eligibility.Eligible {
		fmt.Fprintln(out, "Lot Ready: eligible")
	} else {
		missing := make([]string, 0, len(r.Eligibility.Missing))
		for _, stage := range r.Eligibility.Missing {
			missing = append(missing, string(stage))
		}
		fmt.Fprintf(out, "Lot Ready: missing %s\n", strings.Join(missing, ", "))
	}

	if len(r.Timeline) == 0 {
		return
	}
	fmt.Fprintln(out)
	rows = rows[:0]
	for _, e := range r.Timeline {
		rows = append(rows, []string{e.CreatedAt.Local().Format("2006-01-02 15:04"), string(e.ActivityType), e.Summary})
	}
	fmt.Fprintln(out, renderTable([]string{"When", "Type", "Summary"}, rows, nil))
}

func checkMark(done bool) string {
	if done {
		return "yes"
	}
	return ""
}
