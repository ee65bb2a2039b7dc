package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
	"github.com/thomas-vilte/issuecost/internal/logger"
	"github.com/thomas-vilte/issuecost/internal/models"
	"github.com/thomas-vilte/issuecost/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.IssueLister = (*Client)(nil)

const issuesPerPage = 100

type IssuesService interface {
	ListByRepo(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error)
}

// Client wraps the GitHub issue-listing endpoint. It does no local caching;
// its only side effects are outbound HTTP calls.
type Client struct {
	issuesService IssuesService
	perPage       int
}

func NewClient(token string) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &Client{
		issuesService: client.Issues,
		perPage:       issuesPerPage,
	}
}

func NewClientWithServices(issuesService IssuesService) *Client {
	return &Client{
		issuesService: issuesService,
		perPage:       issuesPerPage,
	}
}

// ListOpenIssues pages through the open-issues listing endpoint and filters
// out pull requests, which the endpoint conflates with issues. Pagination
// stops on the raw page size: a page full of pull requests must not end the
// listing early.
func (c *Client) ListOpenIssues(ctx context.Context, ref models.RepoRef) ([]models.Issue, error) {
	log := logger.FromContext(ctx)

	log.Debug("fetching open issues",
		"owner", ref.Owner,
		"repo", ref.Name)

	var collected []models.Issue
	opts := &github.IssueListByRepoOptions{
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: c.perPage,
			Page:    1,
		},
	}

	for {
		page, resp, err := c.issuesService.ListByRepo(ctx, ref.Owner, ref.Name, opts)
		if err != nil {
			return nil, c.mapListError(ref, resp, err, len(collected))
		}

		for _, issue := range page {
			if issue.PullRequestLinks != nil {
				continue
			}
			collected = append(collected, toIssue(issue))
		}

		// Termination is judged on the unfiltered page size.
		if len(page) < c.perPage {
			break
		}
		opts.ListOptions.Page++
	}

	log.Debug("open issues fetched",
		"owner", ref.Owner,
		"repo", ref.Name,
		"count", len(collected))

	return collected, nil
}

func (c *Client) mapListError(ref models.RepoRef, resp *github.Response, err error, collected int) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithContext("repo", ref.String())
		case http.StatusForbidden:
			if resp.Rate.Remaining == 0 {
				return domainErrors.ErrRateLimited.
					WithMessage(fmt.Sprintf(
						"GitHub API rate limit exhausted after collecting %d issues; a token with a higher quota is required",
						collected)).
					WithContext("repo", ref.String()).
					WithContext("collected", collected)
			}
			return domainErrors.ErrRateLimited.
				WithContext("repo", ref.String())
		default:
			return domainErrors.NewAppError(domainErrors.TypeVCS,
				fmt.Sprintf("GitHub API error: %d", resp.StatusCode), err).
				WithContext("repo", ref.String()).
				WithContext("status_code", resp.StatusCode)
		}
	}
	return fmt.Errorf("failed to list issues for %s: %w", ref.String(), err)
}

func toIssue(issue *github.Issue) models.Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		if label.Name != nil {
			labels = append(labels, label.GetName())
		}
	}

	return models.Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		Labels:    labels,
		URL:       issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
	}
}
