package ui

import (
	"fmt"
	"io"

	"zenget/pkg/types"
	"zenget/pkg/utils"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	completedColor = color.New(color.FgGreen).SprintFunc()
	skippedColor   = color.New(color.FgYellow).SprintFunc()
	failedColor    = color.New(color.FgRed).SprintFunc()
)

// colorize returns the outcome kind name in its report color
func colorize(k types.OutcomeKind) string {
	switch k {
	case types.OutcomeCompleted:
		return completedColor(k.String())
	case types.OutcomeSkipped:
		return skippedColor(k.String())
	default:
		return failedColor(k.String())
	}
}

// RenderFileList prints a table of the files a record contains
func RenderFileList(w io.Writer, record *types.Record) error {
	fmt.Fprintf(w, "Record %s: %s (%d files)\n", record.ID, record.Title, len(record.Files))

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Size", "Checksum")
	for _, f := range record.Files {
		size := "unknown"
		if f.Size > 0 {
			size = utils.FormatFileSize(f.Size)
		}
		checksum := f.Checksum
		if checksum == "" {
			checksum = "-"
		}
		table.Append([]string{f.Name, size, checksum})
	}
	return table.Render()
}

// RenderSummary prints every file's terminal outcome and the aggregate
// counts. Fatal failures are listed by filename and reason, not just as a
// count.
func RenderSummary(w io.Writer, summary *types.RunSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Outcome", "Reason")
	for _, o := range summary.Outcomes {
		reason := o.Reason
		if reason == "" {
			reason = "-"
		}
		table.Append([]string{o.Descriptor.Name, colorize(o.Kind), reason})
	}
	if err := table.Render(); err != nil {
		return err
	}

	completed, skipped, failed := summary.Counts()
	fmt.Fprintf(w, "Completed: %d  Skipped: %d  Failed: %d\n", completed, skipped, failed)
	return nil
}
