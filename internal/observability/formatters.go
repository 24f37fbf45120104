// Package observability provides logging, metrics and formatted terminal output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/4upp/zart/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// barWidth is the number of cells in the progress bar
	barWidth = 40
)

// Printer handles formatted terminal output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProgress redraws a single-line progress bar.
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) PrintProgress(label string, percent int) {
	percent = max(0, min(100, percent))
	filled := percent * barWidth / 100
	fmt.Fprintf(p.out, "\r%s [%s%s] %3d%%", label,
		strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), percent)
	if percent == 100 {
		fmt.Fprintln(p.out)
	}
}

// PrintResult outputs a completed scan result.
func (p *Printer) PrintResult(result *types.ScanResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.Exported {
		sb.WriteString("Archive exported.\n")
		p.printBox("EXPORT COMPLETE", strings.TrimSuffix(sb.String(), "\n"))
		return
	}

	sb.WriteString(fmt.Sprintf("File:     %s\n", result.FileName))
	sb.WriteString(fmt.Sprintf("Input:    %s\n", result.FileSize))
	sb.WriteString(fmt.Sprintf("Package:  %d KB\n", result.DownloadSizeKB))
	if result.Extracted != nil {
		sb.WriteString(fmt.Sprintf("Game:     %s\n", result.Extracted.Name))
		sb.WriteString(fmt.Sprintf("Game ID:  %s\n", result.Extracted.ID))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Result: %s Alert\n", result.ThreatLevel))
	if result.Summary != "" {
		sb.WriteString(fmt.Sprintf("%q\n", result.Summary))
	}
	if len(result.Metadata) > 0 {
		sb.WriteString("\n")
		for _, f := range result.Metadata {
			sb.WriteString(fmt.Sprintf("%-18s %s\n", strings.ToUpper(f.Key), f.Value))
		}
	}

	p.printBox("EXPORT COMPILED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintError outputs a failed cycle.
func (p *Printer) PrintError(message string) {
	p.printBox("ERROR", message)
}

// PrintEntries outputs archive entries, newest handling left to the caller.
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) PrintEntries(lines []string) {
	if len(lines) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "ARCHIVE IS EMPTY")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}
	p.printBox(fmt.Sprintf("ARCHIVE (%d entries)", len(lines)), strings.Join(lines, "\n"))
}
