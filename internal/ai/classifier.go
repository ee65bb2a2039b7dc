package ai

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/thomas-vilte/issuecost/internal/cache"
	"github.com/thomas-vilte/issuecost/internal/logger"
	"github.com/thomas-vilte/issuecost/internal/models"
	"golang.org/x/time/rate"
)

// ClassifierConfig tunes the retry profile of the classifier. The serverless
// profile trades resilience for latency: one attempt, short timeout.
type ClassifierConfig struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	RetryInterval  time.Duration
	RatePerSecond  float64
	Burst          int
}

// DefaultClassifierConfig returns the retry profile for the execution
// environment.
func DefaultClassifierConfig(serverless bool) ClassifierConfig {
	if serverless {
		return ClassifierConfig{
			MaxAttempts:    1,
			AttemptTimeout: 10 * time.Second,
			RetryInterval:  0,
			RatePerSecond:  2,
			Burst:          1,
		}
	}
	return ClassifierConfig{
		MaxAttempts:    3,
		AttemptTimeout: 45 * time.Second,
		RetryInterval:  2 * time.Second,
		RatePerSecond:  2,
		Burst:          1,
	}
}

// Classifier asks a text-generation backend to classify one issue. It never
// fails outward: every internal error collapses into the default verdict so a
// single bad classification cannot abort a batch.
type Classifier struct {
	completer Completer
	cache     *cache.Cache
	limiter   *rate.Limiter
	cfg       ClassifierConfig
}

func NewClassifier(completer Completer, verdictCache *cache.Cache, cfg ClassifierConfig) *Classifier {
	return &Classifier{
		completer: completer,
		cache:     verdictCache,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		cfg:       cfg,
	}
}

// Classify returns the verdict for one issue, from cache when possible.
func (c *Classifier) Classify(ctx context.Context, title, body string, labels []string) models.Verdict {
	log := logger.FromContext(ctx)

	key := c.cacheKey(title, body, labels)

	var cached models.Verdict
	if hit, err := c.cache.Get(key, &cached); err == nil && hit {
		log.Debug("classification cache hit", "title", title)
		return cached
	}

	text, err := c.completeWithRetry(ctx, BuildClassifyPrompt(title, body, labels))
	if err != nil {
		log.Warn("classification failed, using default verdict",
			"title", title,
			"error", err)
		return models.DefaultVerdict()
	}

	verdict, ok := parseVerdict(text)
	if !ok {
		preview := text
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		log.Warn("could not parse classification response, using default verdict",
			"title", title,
			"preview", preview)
		return models.DefaultVerdict()
	}

	if err := c.cache.Set(key, verdict); err != nil {
		log.Warn("failed to cache verdict", "error", err)
	}

	return verdict
}

// ProviderName exposes the backing provider, for the health endpoint.
func (c *Classifier) ProviderName() string {
	return c.completer.ProviderName()
}

func (c *Classifier) completeWithRetry(ctx context.Context, prompt string) (string, error) {
	attempt := func() (string, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", backoff.Permanent(err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()

		return c.completer.Complete(attemptCtx, prompt)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(c.cfg.RetryInterval),
			uint64(c.cfg.MaxAttempts-1),
		),
		ctx,
	)

	return backoff.RetryWithData(attempt, policy)
}

// cacheKey fingerprints the classification-relevant content of an issue.
// Labels are sorted so their order cannot defeat the cache.
func (c *Classifier) cacheKey(title, body string, labels []string) string {
	sorted := make([]string, len(labels))
	copy(sorted, labels)
	sort.Strings(sorted)

	content := strings.Join([]string{
		title,
		TruncateBody(body),
		strings.Join(sorted, ","),
	}, "\x00")

	return cache.GenerateHash(content)
}

type rawVerdict struct {
	Complexity     string  `json:"complexity"`
	EstimatedHours float64 `json:"estimated_hours"`
	Reasoning      string  `json:"reasoning"`
}

func parseVerdict(text string) (models.Verdict, bool) {
	payload := ExtractJSON(text)
	if payload == "" {
		return models.Verdict{}, false
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return models.Verdict{}, false
	}

	verdict := models.Verdict{
		Complexity:     models.Complexity(raw.Complexity),
		EstimatedHours: raw.EstimatedHours,
		Reasoning:      raw.Reasoning,
	}
	if verdict.Reasoning == "" {
		verdict.Reasoning = "No detailed reasoning provided."
	}

	return verdict.Normalized(), true
}
