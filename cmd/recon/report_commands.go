package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rpggio/recontrack/internal/app"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
	"github.com/rpggio/recontrack/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize the pipeline and find the bottleneck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd.Context(), func(svc *app.Services) error {
				rep, err := svc.Reports.Generate(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOut {
					return writeJSON(cmd, rep)
				}
				printReport(cmd, rep)
				return nil
			})
		},
	}
}

func printReport(cmd *cobra.Command, rep report.Report) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	rows := make([][]string, 0, len(rep.Stages))
	for _, s := range rep.Stages {
		avg := ""
		if s.Count > 0 {
			avg = strconv.FormatFloat(s.AverageAge, 'f', 1, 64)
		}
		rows = append(rows, []string{formatStatus(s.Stage, colorize), strconv.Itoa(s.Count), avg})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Vehicles", "Avg Days"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))

	fmt.Fprintf(out, "Total: %d  In recon: %d  Avg days in recon: %.1f\n", rep.Total, rep.InRecon, rep.AverageDaysInRecon)
	if rep.Bottleneck != "" {
		fmt.Fprintf(out, "Bottleneck: %s\n", rep.Bottleneck)
	}

	if len(rep.Stale) == 0 {
		return
	}
	fmt.Fprintf(out, "\nOver %d days in recon:\n", rep.StaleAfterDays)
	rows = rows[:0]
	for _, s := range rep.Stale {
		rows = append(rows, []string{s.StockNumber, s.Description, string(s.Status), s.Detailer, strconv.Itoa(s.AgeDays)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stock #", "Vehicle", "Status", "Detailer", "Days"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
}

var exportHeaders = []string{"Stock #", "Year", "Make", "Model", "Color", "Status", "Date In", "Date Out", "Detailer", "Notes"}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		output   string
		statuses []string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export inventory as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := vehicle.ListOptions{}
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

				var w io.Writer = cmd.OutOrStdout()
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("create export file: %w", err)
					}
					defer f.Close()
					w = f
				}
				_, err = fmt.Fprintln(w, exportCSV(list))
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (repeatable)")
	return cmd
}

func exportCSV(vehicles []vehicle.Vehicle) string {
	rows := make([][]string, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		rows = append(rows, []string{
			v.StockNumber,
			formatYear(v.Year),
			v.Make,
			v.Model,
			v.Color,
			string(v.Status),
			formatDate(&v.DateIn),
			formatDate(v.DateOut),
			v.Detailer,
			v.Notes,
		})
	}
	return newTable(exportHeaders, rows, nil).RenderCSV()
}
