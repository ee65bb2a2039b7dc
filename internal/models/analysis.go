package models

import (
	"math"
	"strings"
)

// Repository result statuses.
const (
	RepoStatusSuccess = "success"
	RepoStatusError   = "error"
)

// AnalyzedIssue is an issue projected together with its verdict and derived
// cost. Instances are created once per issue per session and never mutated.
type AnalyzedIssue struct {
	Number         int        `json:"issue_number"`
	Title          string     `json:"title"`
	Complexity     Complexity `json:"complexity"`
	EstimatedHours float64    `json:"estimated_hours"`
	EstimatedCost  float64    `json:"estimated_cost"`
	Labels         string     `json:"labels"`
	URL            string     `json:"url"`
	Reasoning      string     `json:"reasoning"`
}

// FailedReasoning marks issues whose analysis failed entirely. The issue stays
// in the result set with zero hours and cost so totals remain conservative.
const FailedReasoning = "Analysis failed. Manual review required."

// NewAnalyzedIssue derives the cost record for an issue from its verdict.
func NewAnalyzedIssue(issue Issue, verdict Verdict, hourlyRate float64) AnalyzedIssue {
	return AnalyzedIssue{
		Number:         issue.Number,
		Title:          issue.Title,
		Complexity:     verdict.Complexity,
		EstimatedHours: verdict.EstimatedHours,
		EstimatedCost:  Round2(verdict.EstimatedHours * hourlyRate),
		Labels:         strings.Join(issue.Labels, ", "),
		URL:            issue.URL,
		Reasoning:      verdict.Reasoning,
	}
}

// NewFailedAnalyzedIssue builds the sentinel record for an issue whose
// analysis failed; classification failure never removes an issue from the
// result set.
func NewFailedAnalyzedIssue(issue Issue) AnalyzedIssue {
	return AnalyzedIssue{
		Number:     issue.Number,
		Title:      issue.Title,
		Complexity: ComplexityUnknown,
		Labels:     strings.Join(issue.Labels, ", "),
		URL:        issue.URL,
		Reasoning:  FailedReasoning,
	}
}

// RepositoryResult is the per-repository outcome, immutable after creation.
// A per-repository failure is captured in Status/Error instead of aborting
// the surrounding session.
type RepositoryResult struct {
	Owner      string          `json:"owner"`
	Repo       string          `json:"repo"`
	Issues     []AnalyzedIssue `json:"issues"`
	TotalCost  float64         `json:"total_cost"`
	TotalHours float64         `json:"total_hours"`
	IssueCount int             `json:"issue_count"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	Message    string          `json:"message,omitempty"`
	CacheKey   string          `json:"cache_key,omitempty"`
}

// AnalysisResult is the final aggregate published only on terminal success.
type AnalysisResult struct {
	RepoResults []RepositoryResult `json:"repo_results"`
	TotalCost   float64            `json:"total_cost"`
	TotalHours  float64            `json:"total_hours"`
	TotalIssues int                `json:"total_issues"`
	HourlyRate  float64            `json:"hourly_rate"`
	SessionID   string             `json:"session_id"`
}

// Round2 rounds to 2 decimals, used for money amounts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal, used for hour totals.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
