package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/issuecost/internal/models"
)

type (
	MockIssueLister struct {
		mock.Mock
	}

	MockClassifier struct {
		mock.Mock
	}

	MockAnalyzer struct {
		mock.Mock
	}
)

func (m *MockIssueLister) ListOpenIssues(ctx context.Context, ref models.RepoRef) ([]models.Issue, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Issue), args.Error(1)
}

func (m *MockClassifier) Classify(ctx context.Context, title, body string, labels []string) models.Verdict {
	args := m.Called(ctx, title, body, labels)
	return args.Get(0).(models.Verdict)
}

func (m *MockAnalyzer) Analyze(ctx context.Context, rawRef string, hourlyRate float64, repoIndex, totalRepos int, progress ProgressFunc) models.RepositoryResult {
	args := m.Called(ctx, rawRef, hourlyRate, repoIndex, totalRepos, progress)
	return args.Get(0).(models.RepositoryResult)
}
