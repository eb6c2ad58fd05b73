package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/rpggio/recontrack/internal/domain/workflow"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers []string, rows [][]string, aligns []columnAlignment) table.Writer {
	columns := len(headers)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)
	return tw
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}
	return newTable(headers, rows, aligns).Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func statusColor(status workflow.Stage) text.Colors {
	switch status {
	case workflow.StageLotReady:
		return text.Colors{text.FgGreen}
	case workflow.StageSold:
		return text.Colors{text.Faint}
	case workflow.StageNewArrival:
		return text.Colors{text.FgCyan}
	default:
		return text.Colors{text.FgYellow}
	}
}

func formatStatus(status workflow.Stage, colorize bool) string {
	if !colorize {
		return string(status)
	}
	return statusColor(status).Sprint(string(status))
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// printVehicles writes the inventory table used by list and every mutation.
func printVehicles(cmd *cobra.Command, vehicles []vehicle.Vehicle, now time.Time) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	total := len(workflow.Stages())

	rows := make([][]string, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		progress := ""
		if v.Workflow != nil {
			progress = fmt.Sprintf("%d/%d", v.Workflow.CompletedCount(), total)
		}
		rows = append(rows, []string{
			v.StockNumber,
			v.Description(),
			v.Color,
			formatStatus(v.Status, colorize),
			v.Detailer,
			strconv.Itoa(vehicle.Age(v, now)),
			progress,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stock #", "Vehicle", "Color", "Status", "Detailer", "Days", "Progress"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
}
