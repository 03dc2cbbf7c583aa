package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/winterwar/wwlauncher/internal/catalog"
	"github.com/winterwar/wwlauncher/internal/domain"
)

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Options(
		tablewriter.WithHeader(headers),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(len(headers), tw.AlignLeft)),
	)
	return table
}

// renderPurgeSummary prints one row per purge result and a totals line.
func renderPurgeSummary(w io.Writer, summary domain.PurgeSummary) error {
	if len(summary.Results) == 0 {
		fmt.Fprintln(w, "No Winter War artifacts found.")
		return nil
	}

	table := newTable(w, []string{"Path", "Rule", "Result"})
	for _, r := range summary.Results {
		result := string(r.Outcome)
		if r.Reason != nil {
			result = fmt.Sprintf("%s (%v)", result, r.Reason)
		}
		if err := table.Append([]string{r.Candidate.Path, string(r.Candidate.Rule), result}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if summary.DryRun {
		fmt.Fprintf(w, "Dry run: %d path(s) would be removed\n", summary.Skipped)
		return nil
	}
	fmt.Fprintf(w, "Removed %d, failed %d\n", summary.Removed, summary.Failed)
	for _, r := range summary.Failures() {
		if errors.Is(r.Reason, fs.ErrPermission) {
			fmt.Fprintln(w, color.Warn.Sprint("Some files are locked. Close the game and Steam, or run the launcher as administrator."))
			break
		}
	}
	return nil
}

// renderPolicies prints the known packages and, when dataRoot is set, the
// locations each one purges.
func renderPolicies(w io.Writer, policies []catalog.PackagePolicy, dataRoot string) error {
	table := newTable(w, []string{"ID", "Name", "Marker", "Workshop ID", "Process"})
	for _, p := range policies {
		if err := table.Append([]string{
			p.ID(),
			p.Name(),
			p.MarkerFile(),
			strconv.FormatInt(p.WorkshopID(), 10),
			p.ProcessName(),
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if dataRoot == "" {
		return nil
	}
	for _, p := range policies {
		fmt.Fprintf(w, "\n[%s] locations under %s\n", p.ID(), dataRoot)
		for _, path := range catalog.New(dataRoot, p).Paths() {
			fmt.Fprintf(w, "  - %s\n", path)
		}
	}
	return nil
}

// printFatal prints err as a single red line with a pointer to the log.
func printFatal(w io.Writer, err error, logPath string) {
	fmt.Fprintln(w, color.Error.Sprintf("ERROR: %v", err))
	if logPath != "" {
		fmt.Fprintf(w, "Check %s for details.\n", logPath)
	}
}
