package vcs

import (
	"context"

	"github.com/thomas-vilte/issuecost/internal/models"
)

// IssueLister fetches the open issues of a repository, already filtered of
// pull requests and normalized into domain issues.
type IssueLister interface {
	ListOpenIssues(ctx context.Context, ref models.RepoRef) ([]models.Issue, error)
}
