package restore

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"restamp/shared/types"
)

// RenderSummary writes the human-facing run report: a one-line verdict and
// a counters table.
func RenderSummary(w io.Writer, s *shared.Summary) {
	fmt.Fprintln(w, verdict(s))
	fmt.Fprintln(w)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	rows := []struct {
		label string
		value string
		skip  bool
	}{
		{label: "Files found", value: humanize.Comma(int64(s.TotalFiles))},
		{label: "Not tracked", value: humanize.Comma(int64(s.IgnoredFiles)), skip: s.IgnoredFiles == 0},
		{label: "Skipped by age", value: humanize.Comma(int64(s.SkippedFiles)), skip: s.SkippedFiles == 0},
		{label: updatedLabel(s), value: humanize.Comma(int64(s.UpdatedFiles))},
		{label: "Without history", value: humanize.Comma(int64(s.MissingFiles)), skip: s.MissingFiles == 0},
		{label: "Errors", value: humanize.Comma(int64(s.ApplyErrors)), skip: s.ApplyErrors == 0},
		{label: "Directories stamped", value: humanize.Comma(int64(s.UpdatedDirs)), skip: s.UpdatedDirs == 0},
		{label: "Commits scanned", value: humanize.Comma(int64(s.Commits))},
		{label: "Log records read", value: humanize.Comma(int64(s.LogRecords))},
		{label: "Malformed records", value: humanize.Comma(int64(s.MalformedRecords)), skip: s.MalformedRecords == 0},
		{label: "Elapsed", value: s.Elapsed.Round(time.Millisecond).String()},
	}
	for _, row := range rows {
		if row.skip {
			continue
		}
		tbl.AppendRow(table.Row{row.label, row.value})
	}

	fmt.Fprintln(w, tbl.Render())
}

func updatedLabel(s *shared.Summary) string {
	if s.DryRun {
		return "Would update"
	}
	return "Updated"
}

func verdict(s *shared.Summary) string {
	candidates := s.Candidates()

	switch {
	case candidates == 0:
		return color.YellowString("Nothing to restore (run %s)", s.RunID)
	case s.Clean() && s.DryRun:
		return color.GreenString("Would restore %s of %s files (run %s)",
			humanize.Comma(int64(s.UpdatedFiles)), humanize.Comma(int64(candidates)), s.RunID)
	case s.Clean():
		return color.GreenString("Restored %s of %s files (run %s)",
			humanize.Comma(int64(s.UpdatedFiles)), humanize.Comma(int64(candidates)), s.RunID)
	default:
		return color.YellowString("Restored %s of %s files, %s without history, %s errors (run %s)",
			humanize.Comma(int64(s.UpdatedFiles)), humanize.Comma(int64(candidates)),
			humanize.Comma(int64(s.MissingFiles)), humanize.Comma(int64(s.ApplyErrors)), s.RunID)
	}
}
