package vcs

import (
	"regexp"
	"strings"

	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
	"github.com/thomas-vilte/issuecost/internal/models"
)

var (
	repoURLPattern       = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)
	repoShorthandPattern = regexp.MustCompile(`^([^/]+)/([^/]+)$`)
)

// ParseRepoRef extracts owner and name from a full GitHub URL or the
// owner/name shorthand. A trailing .git suffix and trailing slashes are
// stripped before matching.
func ParseRepoRef(raw string) (models.RepoRef, error) {
	cleaned := strings.TrimRight(strings.TrimSpace(raw), "/")

	for _, pattern := range []*regexp.Regexp{repoURLPattern, repoShorthandPattern} {
		matches := pattern.FindStringSubmatch(cleaned)
		if len(matches) == 3 {
			name := strings.TrimSuffix(matches[2], ".git")
			if matches[1] == "" || name == "" {
				continue
			}
			return models.RepoRef{Owner: matches[1], Name: name}, nil
		}
	}

	return models.RepoRef{}, domainErrors.ErrInvalidRepoReference.WithContext("reference", raw)
}
