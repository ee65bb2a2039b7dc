// Package export renders analysis results for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/thomas-vilte/issuecost/internal/models"
)

// DefaultFilename is the suggested name for downloaded reports.
const DefaultFilename = "issue_costs.csv"

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// csvHeader is the column order of the report.
var csvHeader = []string{
	"issue_number",
	"title",
	"complexity",
	"estimated_hours",
	"estimated_cost",
	"labels",
	"url",
	"reasoning",
}

// WriteCSV renders the analyzed issues as a CSV report. Reasoning is stored
// as HTML for the web view; it is flattened to plain text here only.
func WriteCSV(issues []models.AnalyzedIssue) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, issue := range issues {
		record := []string{
			fmt.Sprintf("%d", issue.Number),
			issue.Title,
			string(issue.Complexity),
			formatHours(issue.EstimatedHours),
			formatCost(issue.EstimatedCost),
			issue.Labels,
			issue.URL,
			StripHTML(issue.Reasoning),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// StripHTML flattens HTML markup to plain text: tags are removed, entities
// decoded and whitespace collapsed.
func StripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func formatHours(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}

func formatCost(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
