package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"adujour/internal/pipeline"
)

const timeRounding = 10 * time.Millisecond

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

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

	return tw.Render()
}

func renderSummary(w io.Writer, summary *pipeline.Summary) {
	if summary == nil {
		return
	}

	rows := [][]string{
		{"Run", summary.RunID},
		{"State", string(summary.FinalState)},
	}
	if summary.FinalState == pipeline.StateAborting && summary.AbortedFrom != "" {
		rows = append(rows, []string{"Aborted from", string(summary.AbortedFrom)})
	}
	if counts := summary.Counts; counts.Current+counts.Added+counts.Finished > 0 {
		rows = append(rows,
			[]string{"Currently listening", strconv.Itoa(counts.Current)},
			[]string{"Recently added", strconv.Itoa(counts.Added)},
			[]string{"Recently finished", strconv.Itoa(counts.Finished)},
		)
	}
	if summary.Deploy != nil {
		rows = append(rows, []string{"Deploy branch", describeOutcome(summary.Deploy.Branch, summary.Deploy.NoOp, summary.Deploy.Level.String())})
	}
	if summary.Source != nil {
		rows = append(rows, []string{"Source branch", describeOutcome(summary.Source.Branch, summary.Source.NoOp, summary.Source.Level.String())})
	}
	if summary.Duration > 0 {
		rows = append(rows, []string{"Duration", summary.Duration.Round(timeRounding).String()})
	}

	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
}

func describeOutcome(branch string, noOp bool, level string) string {
	if noOp {
		return branch + " (up to date)"
	}
	return fmt.Sprintf("%s (pushed, %s)", branch, level)
}
