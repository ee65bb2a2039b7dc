package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
	"github.com/thomas-vilte/issuecost/internal/i18n"
	"github.com/thomas-vilte/issuecost/internal/logger"
	"github.com/thomas-vilte/issuecost/internal/models"
)

// MaxReposPerSession bounds one analysis request.
const MaxReposPerSession = 5

// Analyzer runs the pipeline for one repository reference.
type Analyzer interface {
	Analyze(ctx context.Context, rawRef string, hourlyRate float64, repoIndex, totalRepos int, progress ProgressFunc) models.RepositoryResult
}

// SessionManagerConfig tunes session retention.
type SessionManagerConfig struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// SessionManager owns the lifecycle of analysis sessions: it validates
// requests, runs each session in its own goroutine and retires finished
// sessions after a grace period.
type SessionManager struct {
	analyzer Analyzer
	store    *ProgressStore
	trans    *i18n.Translations
	cfg      SessionManagerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSessionManager(analyzer Analyzer, store *ProgressStore, trans *i18n.Translations, cfg SessionManagerConfig) *SessionManager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &SessionManager{
		analyzer: analyzer,
		store:    store,
		trans:    trans,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
	}

	if cfg.SweepInterval > 0 {
		m.wg.Add(1)
		go m.janitor()
	}

	return m
}

// Submit validates the request and starts the analysis in the background.
// It returns the session id for progress polling.
func (m *SessionManager) Submit(ctx context.Context, refs []string, hourlyRate float64) (string, error) {
	if len(refs) == 0 {
		return "", domainErrors.ErrNoRepositories
	}
	if len(refs) > MaxReposPerSession {
		return "", domainErrors.ErrTooManyRepositories.
			WithContext("count", len(refs))
	}
	if hourlyRate <= 0 {
		return "", domainErrors.ErrInvalidHourlyRate.
			WithContext("hourly_rate", hourlyRate)
	}

	id := uuid.NewString()

	m.store.Put(models.Session{
		ID:         id,
		Status:     models.StatusConnecting,
		Progress:   0,
		Message:    m.trans.GetMessage("connecting_to_github", 0, nil),
		TotalRepos: len(refs),
	})

	log := logger.FromContext(ctx)
	log.Info("analysis session started",
		"session_id", id,
		"repo_count", len(refs),
		"hourly_rate", hourlyRate)

	m.wg.Add(1)
	go m.run(id, refs, hourlyRate)

	return id, nil
}

// Progress returns a snapshot of the session.
func (m *SessionManager) Progress(id string) (models.Session, error) {
	session, ok := m.store.Snapshot(id)
	if !ok {
		return models.Session{}, domainErrors.ErrSessionNotFound.
			WithContext("session_id", id)
	}
	return session, nil
}

// Close stops accepting background work and waits for running sessions.
func (m *SessionManager) Close() {
	m.cancel()
	m.wg.Wait()
}

func (m *SessionManager) run(id string, refs []string, hourlyRate float64) {
	defer m.wg.Done()

	ctx := logger.With(m.ctx, "session_id", id)
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error("analysis session panicked", "panic", r)
			m.store.Update(id, func(s *models.Session) {
				s.Status = models.StatusError
				s.Progress = 0
				s.Message = fmt.Sprintf("Internal error: %v", r)
			})
		}
	}()

	results := make([]models.RepositoryResult, 0, len(refs))

	for i, raw := range refs {
		if ctx.Err() != nil {
			m.store.Update(id, func(s *models.Session) {
				s.Status = models.StatusError
				s.Message = m.trans.GetMessage("analysis_cancelled", 0, nil)
			})
			return
		}

		m.store.Update(id, func(s *models.Session) {
			s.Status = models.StatusConnecting
			s.CurrentRepo = i + 1
			s.Message = m.trans.GetMessage("analyzing_repository", 0, map[string]interface{}{
				"Current": i + 1,
				"Total":   len(refs),
				"Repo":    raw,
			})
		})

		result := m.analyzer.Analyze(ctx, raw, hourlyRate, i+1, len(refs), func(u ProgressUpdate) {
			m.store.Update(id, func(s *models.Session) {
				s.Status = u.Status
				s.Progress = u.Progress
				if u.Message != "" {
					s.Message = u.Message
				}
				s.CurrentRepo = u.CurrentRepo
				s.TotalRepos = u.TotalRepos
				s.CurrentIssue = u.CurrentIssue
				s.TotalIssues = u.TotalIssues
			})
		})

		results = append(results, result)

		m.store.Update(id, func(s *models.Session) {
			s.RepoResults = append(s.RepoResults, result)
		})
	}

	final := aggregate(results, hourlyRate, id)

	m.store.Update(id, func(s *models.Session) {
		s.Status = models.StatusComplete
		s.Progress = 100
		s.Message = m.trans.GetMessage("analysis_complete", 0, nil)
		s.Result = final
	})

	log.Info("analysis session complete",
		"repos", len(results),
		"total_issues", final.TotalIssues,
		"total_cost", final.TotalCost)
}

func aggregate(results []models.RepositoryResult, hourlyRate float64, sessionID string) *models.AnalysisResult {
	var totalCost, totalHours float64
	totalIssues := 0

	for _, r := range results {
		totalCost += r.TotalCost
		totalHours += r.TotalHours
		totalIssues += r.IssueCount
	}

	return &models.AnalysisResult{
		RepoResults: results,
		TotalCost:   models.Round2(totalCost),
		TotalHours:  models.Round1(totalHours),
		TotalIssues: totalIssues,
		HourlyRate:  hourlyRate,
		SessionID:   sessionID,
	}
}

func (m *SessionManager) janitor() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if evicted := m.store.DeleteExpired(m.cfg.SessionTTL); evicted > 0 {
				logger.FromContext(m.ctx).Debug("expired sessions evicted", "count", evicted)
			}
		}
	}
}
