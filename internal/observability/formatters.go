// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/masaki2607/oneview-matching/internal/matching"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatchResult outputs a scored match with its factor breakdown. Prioritized
// factors carry a marker so boosted weights are visible at a glance.
func (p *Printer) PrintMatchResult(result *matching.MatchResult, priority []matching.Factor) {
	if result == nil {
		return
	}

	prioritized := make(map[matching.Factor]int, len(priority))
	for i, f := range priority {
		prioritized[f] = i + 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total score: %.2f / 100\n\n", result.Score))

	for _, factor := range matching.AllFactors {
		value, ok := result.Breakdown[factor]
		if !ok {
			continue
		}
		marker := " "
		if rank, hit := prioritized[factor]; hit {
			marker = fmt.Sprintf("%d", rank)
		}
		sb.WriteString(fmt.Sprintf("%s %-22s %.2f  %s\n", marker, factor, value, scoreBar(value)))
	}

	if result.Reason != "" {
		reason := result.Reason
		if len(reason) > 50 {
			reason = reason[:47] + "..."
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Reason: %s\n", reason))
	}

	p.printBox("MATCH SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs the top ranked postings with scores.
func (p *Printer) PrintRanking(result *matching.RankingResult) {
	if result == nil || len(result.Results) == 0 {
		p.printBox("JOB RANKING", "No postings to rank")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Postings ranked: %d\n\n", len(result.Results)))

	count := min(len(result.Results), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := result.Results[i]
		title := job.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("    Score: %.2f  (posting %d)\n", job.Score, job.JobPostingID))
		if top := topFactor(job.Breakdown); top != "" {
			sb.WriteString(fmt.Sprintf("    Strongest: %s\n", top))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(result.Results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more postings", len(result.Results)-maxItemsToShow))
	}

	p.printBox("JOB RANKING", sb.String())
}

// PrintPriorityOrder outputs the resolved priority order and its weights.
func (p *Printer) PrintPriorityOrder(priority []matching.Factor) {
	if len(priority) == 0 {
		p.printBox("PRIORITY ORDER", "No priorities set (all factors weighted equally)")
		return
	}

	var sb strings.Builder
	for i, factor := range priority {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, factor))
	}
	p.printBox("PRIORITY ORDER", strings.TrimSuffix(sb.String(), "\n"))
}

// scoreBar renders a ten-segment bar for a factor value in [0, 1].
func scoreBar(value float64) string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(value*10 + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// topFactor returns the highest scoring factor, preferring emission order on
// ties.
func topFactor(breakdown matching.Breakdown) matching.Factor {
	var best matching.Factor
	bestValue := -1.0
	for _, factor := range matching.AllFactors {
		if value, ok := breakdown[factor]; ok && value > bestValue {
			best = factor
			bestValue = value
		}
	}
	return best
}
