package services

import (
	"context"

	"github.com/thomas-vilte/issuecost/internal/cache"
	"github.com/thomas-vilte/issuecost/internal/i18n"
	"github.com/thomas-vilte/issuecost/internal/logger"
	"github.com/thomas-vilte/issuecost/internal/models"
	"github.com/thomas-vilte/issuecost/internal/vcs"
)

const progressTitleLimit = 50

// IssueClassifier yields a verdict for one issue. Implementations never fail;
// on any internal error they return a default verdict instead.
type IssueClassifier interface {
	Classify(ctx context.Context, title, body string, labels []string) models.Verdict
}

// ProgressUpdate is one observation of an in-flight analysis, pushed to the
// session that owns it.
type ProgressUpdate struct {
	Status       models.SessionStatus
	Progress     int
	Message      string
	CurrentRepo  int
	TotalRepos   int
	CurrentIssue int
	TotalIssues  int
}

// ProgressFunc receives progress updates during an analysis.
type ProgressFunc func(ProgressUpdate)

// ProgressPercent computes overall progress with repoIndex (1-based) of
// totalRepos, after issuesDone of totalIssues issues in the current
// repository. Each repository owns an equal slice of the bar, and the value
// is capped at 99: only session completion reports 100.
func ProgressPercent(repoIndex, totalRepos, issuesDone, totalIssues int) int {
	if totalRepos <= 0 {
		return 0
	}

	base := (repoIndex - 1) * 100 / totalRepos

	within := 0
	if totalIssues > 0 {
		within = issuesDone * 100 / (totalRepos * totalIssues)
	}

	p := base + within
	if p > 99 {
		p = 99
	}
	if p < 0 {
		p = 0
	}
	return p
}

// RepositoryAnalyzer runs the fetch-classify-aggregate pipeline for a single
// repository. It never returns an error: failures are folded into the
// RepositoryResult so one bad repository cannot abort a multi-repo session.
type RepositoryAnalyzer struct {
	issues      vcs.IssueLister
	classifier  IssueClassifier
	trans       *i18n.Translations
	exportCache *cache.Cache
}

func NewRepositoryAnalyzer(issues vcs.IssueLister, classifier IssueClassifier, trans *i18n.Translations, exportCache *cache.Cache) *RepositoryAnalyzer {
	return &RepositoryAnalyzer{
		issues:      issues,
		classifier:  classifier,
		trans:       trans,
		exportCache: exportCache,
	}
}

// Analyze processes one repository reference and reports progress along the
// way. repoIndex is 1-based.
func (a *RepositoryAnalyzer) Analyze(ctx context.Context, rawRef string, hourlyRate float64, repoIndex, totalRepos int, progress ProgressFunc) models.RepositoryResult {
	log := logger.FromContext(ctx)

	base := ProgressPercent(repoIndex, totalRepos, 0, 0)

	progress(ProgressUpdate{
		Status:      models.StatusConnecting,
		Progress:    base,
		Message:     a.trans.GetMessage("parsing_repository", 0, nil),
		CurrentRepo: repoIndex,
		TotalRepos:  totalRepos,
	})

	ref, err := vcs.ParseRepoRef(rawRef)
	if err != nil {
		log.Warn("invalid repository reference", "reference", rawRef, "error", err)
		return models.RepositoryResult{
			Status: models.RepoStatusError,
			Error:  err.Error(),
		}
	}

	progress(ProgressUpdate{
		Status:   models.StatusFetching,
		Progress: base,
		Message: a.trans.GetMessage("fetching_issues", 0, map[string]interface{}{
			"Owner": ref.Owner,
			"Repo":  ref.Name,
		}),
		CurrentRepo: repoIndex,
		TotalRepos:  totalRepos,
	})

	issues, err := a.issues.ListOpenIssues(ctx, ref)
	if err != nil {
		log.Error("failed to fetch issues",
			"repo", ref.String(),
			"error", err)
		return models.RepositoryResult{
			Owner:  ref.Owner,
			Repo:   ref.Name,
			Status: models.RepoStatusError,
			Error:  err.Error(),
		}
	}

	if len(issues) == 0 {
		result := models.RepositoryResult{
			Owner:    ref.Owner,
			Repo:     ref.Name,
			Issues:   []models.AnalyzedIssue{},
			Status:   models.RepoStatusSuccess,
			Message:  a.trans.GetMessage("no_open_issues", 0, nil),
			CacheKey: ref.CacheKey(),
		}
		a.publish(ctx, ref, result)
		return result
	}

	progress(ProgressUpdate{
		Status:   models.StatusAnalyzing,
		Progress: base,
		Message: a.trans.GetMessage("issues_found", len(issues), map[string]interface{}{
			"Count": len(issues),
			"Owner": ref.Owner,
			"Repo":  ref.Name,
		}),
		CurrentRepo: repoIndex,
		TotalRepos:  totalRepos,
		TotalIssues: len(issues),
	})

	analyzed := make([]models.AnalyzedIssue, 0, len(issues))
	var totalHours, totalCost float64

	for j, issue := range issues {
		progress(ProgressUpdate{
			Status:   models.StatusAnalyzing,
			Progress: ProgressPercent(repoIndex, totalRepos, j, len(issues)),
			Message: a.trans.GetMessage("analyzing_issue", 0, map[string]interface{}{
				"Current": j + 1,
				"Total":   len(issues),
				"Title":   truncateTitle(issue.Title),
			}),
			CurrentRepo:  repoIndex,
			TotalRepos:   totalRepos,
			CurrentIssue: j + 1,
			TotalIssues:  len(issues),
		})

		record := a.classifyIssue(ctx, issue, hourlyRate)
		analyzed = append(analyzed, record)
		totalHours += record.EstimatedHours
		totalCost += record.EstimatedCost

		progress(ProgressUpdate{
			Status:       models.StatusAnalyzing,
			Progress:     ProgressPercent(repoIndex, totalRepos, j+1, len(issues)),
			CurrentRepo:  repoIndex,
			TotalRepos:   totalRepos,
			CurrentIssue: j + 1,
			TotalIssues:  len(issues),
		})
	}

	result := models.RepositoryResult{
		Owner:      ref.Owner,
		Repo:       ref.Name,
		Issues:     analyzed,
		TotalCost:  models.Round2(totalCost),
		TotalHours: models.Round1(totalHours),
		IssueCount: len(analyzed),
		Status:     models.RepoStatusSuccess,
		CacheKey:   ref.CacheKey(),
	}

	a.publish(ctx, ref, result)

	log.Info("repository analyzed",
		"repo", ref.String(),
		"issues", result.IssueCount,
		"total_cost", result.TotalCost)

	return result
}

// classifyIssue turns one issue into its cost record. A panic inside the
// classification path is contained here: the issue stays in the result set as
// a failed record.
func (a *RepositoryAnalyzer) classifyIssue(ctx context.Context, issue models.Issue, hourlyRate float64) (record models.AnalyzedIssue) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("panic while classifying issue",
				"issue", issue.Number,
				"panic", r)
			record = models.NewFailedAnalyzedIssue(issue)
		}
	}()

	verdict := a.classifier.Classify(ctx, issue.Title, issue.Body, issue.Labels)
	return models.NewAnalyzedIssue(issue, verdict, hourlyRate)
}

// publish stores the result for later CSV export, keyed by the repository.
func (a *RepositoryAnalyzer) publish(ctx context.Context, ref models.RepoRef, result models.RepositoryResult) {
	if a.exportCache == nil {
		return
	}
	if err := a.exportCache.Set(ref.CacheKey(), result); err != nil {
		logger.FromContext(ctx).Warn("failed to cache repository result",
			"repo", ref.String(),
			"error", err)
	}
}

func truncateTitle(title string) string {
	if len(title) > progressTitleLimit {
		return title[:progressTitleLimit]
	}
	return title
}
