package models

import (
	"fmt"
	"time"
)

// RepoRef identifies a repository by its owner and name.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"repo"`
}

func (r RepoRef) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// CacheKey is the key under which a repository's analyzed issues are stored
// for later export.
func (r RepoRef) CacheKey() string {
	return fmt.Sprintf("%s_%s", r.Owner, r.Name)
}

// Issue is an open issue as fetched from the VCS host, immutable once fetched.
// Pull requests are filtered out before this type is ever built.
type Issue struct {
	Number    int       `json:"issue_number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Labels    []string  `json:"labels"`
	URL       string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
