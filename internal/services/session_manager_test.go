package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
	"github.com/thomas-vilte/issuecost/internal/models"
)

func newTestManager(t *testing.T, analyzer Analyzer) *SessionManager {
	t.Helper()
	m := NewSessionManager(analyzer, NewProgressStore(), testTranslations(t), SessionManagerConfig{
		SessionTTL:    time.Hour,
		SweepInterval: 0,
	})
	t.Cleanup(m.Close)
	return m
}

func waitForTerminal(t *testing.T, m *SessionManager, id string) models.Session {
	t.Helper()
	var session models.Session
	require.Eventually(t, func() bool {
		s, err := m.Progress(id)
		if err != nil {
			return false
		}
		session = s
		return s.Status.Terminal()
	}, 2*time.Second, 5*time.Millisecond)
	return session
}

func TestSessionManager_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject an empty repository list", func(t *testing.T) {
		m := newTestManager(t, new(MockAnalyzer))

		_, err := m.Submit(ctx, nil, 80)

		assert.Equal(t, domainErrors.TypeValidation, domainErrors.TypeOf(err))
	})

	t.Run("should reject more than five repositories", func(t *testing.T) {
		m := newTestManager(t, new(MockAnalyzer))

		refs := []string{"a/1", "a/2", "a/3", "a/4", "a/5", "a/6"}
		_, err := m.Submit(ctx, refs, 80)

		assert.Equal(t, domainErrors.TypeValidation, domainErrors.TypeOf(err))
	})

	t.Run("should reject a non-positive hourly rate", func(t *testing.T) {
		m := newTestManager(t, new(MockAnalyzer))

		_, err := m.Submit(ctx, []string{"acme/app"}, 0)

		assert.Equal(t, domainErrors.TypeValidation, domainErrors.TypeOf(err))
	})

	t.Run("should seed the session before returning", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(models.RepositoryResult{Status: models.RepoStatusSuccess})

		m := newTestManager(t, analyzer)

		id, err := m.Submit(ctx, []string{"acme/app"}, 80)
		require.NoError(t, err)

		session, err := m.Progress(id)
		require.NoError(t, err)
		assert.Equal(t, id, session.ID)
		assert.Equal(t, 1, session.TotalRepos)
	})
}

func TestSessionManager_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("should complete at exactly 100", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, "acme/app", 80.0, 1, 1, mock.Anything).
			Return(models.RepositoryResult{
				Owner:      "acme",
				Repo:       "app",
				Status:     models.RepoStatusSuccess,
				TotalCost:  800,
				TotalHours: 10,
				IssueCount: 2,
			})

		m := newTestManager(t, analyzer)

		id, err := m.Submit(ctx, []string{"acme/app"}, 80)
		require.NoError(t, err)

		session := waitForTerminal(t, m, id)

		assert.Equal(t, models.StatusComplete, session.Status)
		assert.Equal(t, 100, session.Progress)
		require.NotNil(t, session.Result)
		assert.Equal(t, 800.0, session.Result.TotalCost)
		assert.Equal(t, 2, session.Result.TotalIssues)
		assert.Equal(t, 80.0, session.Result.HourlyRate)
		assert.Equal(t, id, session.Result.SessionID)
	})

	t.Run("should isolate a failing repository from the rest", func(t *testing.T) {
		analyzer := new(MockAnalyzer)
		analyzer.On("Analyze", mock.Anything, "bad ref", mock.Anything, 1, 2, mock.Anything).
			Return(models.RepositoryResult{Status: models.RepoStatusError, Error: "invalid reference"})
		analyzer.On("Analyze", mock.Anything, "acme/app", mock.Anything, 2, 2, mock.Anything).
			Return(models.RepositoryResult{
				Owner:      "acme",
				Repo:       "app",
				Status:     models.RepoStatusSuccess,
				TotalCost:  400,
				TotalHours: 5,
				IssueCount: 1,
			})

		m := newTestManager(t, analyzer)

		id, err := m.Submit(ctx, []string{"bad ref", "acme/app"}, 80)
		require.NoError(t, err)

		session := waitForTerminal(t, m, id)

		assert.Equal(t, models.StatusComplete, session.Status)
		require.Len(t, session.RepoResults, 2)
		assert.Equal(t, models.RepoStatusError, session.RepoResults[0].Status)
		assert.Equal(t, models.RepoStatusSuccess, session.RepoResults[1].Status)
		assert.Equal(t, 400.0, session.Result.TotalCost)
	})

	t.Run("should fail the session with progress reset when the analyzer panics", func(t *testing.T) {
		m := newTestManager(t, panickingAnalyzer{})

		id, err := m.Submit(ctx, []string{"acme/app"}, 80)
		require.NoError(t, err)

		session := waitForTerminal(t, m, id)

		assert.Equal(t, models.StatusError, session.Status)
		assert.Equal(t, 0, session.Progress)
		assert.Contains(t, session.Message, "Internal error")
	})
}

func TestSessionManager_Progress(t *testing.T) {
	t.Run("should return a session error for unknown ids", func(t *testing.T) {
		m := newTestManager(t, new(MockAnalyzer))

		_, err := m.Progress("unknown")

		assert.Equal(t, domainErrors.TypeSession, domainErrors.TypeOf(err))
	})
}

type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(context.Context, string, float64, int, int, ProgressFunc) models.RepositoryResult {
	panic("analyzer exploded")
}
