package models

import "time"

// SessionStatus is the lifecycle state of an analysis session. The fetching
// and analyzing states are advisory labels for pollers, not synchronization
// points.
type SessionStatus string

const (
	StatusConnecting SessionStatus = "connecting"
	StatusFetching   SessionStatus = "fetching"
	StatusAnalyzing  SessionStatus = "analyzing"
	StatusComplete   SessionStatus = "complete"
	StatusError      SessionStatus = "error"
	StatusNotFound   SessionStatus = "not_found"
)

// Terminal reports whether the session reached a final state.
func (s SessionStatus) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// Session is one user-initiated analysis run. It is mutated exclusively by its
// own background job; pollers only ever see copies.
type Session struct {
	ID           string             `json:"session_id"`
	Status       SessionStatus      `json:"status"`
	Progress     int                `json:"progress"`
	Message      string             `json:"message"`
	CurrentRepo  int                `json:"current_repo"`
	TotalRepos   int                `json:"total_repos"`
	CurrentIssue int                `json:"current"`
	TotalIssues  int                `json:"total"`
	RepoResults  []RepositoryResult `json:"repo_results"`
	Result       *AnalysisResult    `json:"result,omitempty"`
	UpdatedAt    time.Time          `json:"-"`
}

// Clone returns a deep enough copy for pollers: the slices backing the
// original are never shared with readers.
func (s *Session) Clone() Session {
	cp := *s
	if s.RepoResults != nil {
		cp.RepoResults = make([]RepositoryResult, len(s.RepoResults))
		copy(cp.RepoResults, s.RepoResults)
	}
	if s.Result != nil {
		res := *s.Result
		res.RepoResults = make([]RepositoryResult, len(s.Result.RepoResults))
		copy(res.RepoResults, s.Result.RepoResults)
		cp.Result = &res
	}
	return cp
}
