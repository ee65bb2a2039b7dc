package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/thomas-vilte/issuecost/internal/cache"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
	"github.com/thomas-vilte/issuecost/internal/export"
	"github.com/thomas-vilte/issuecost/internal/i18n"
	"github.com/thomas-vilte/issuecost/internal/logger"
	"github.com/thomas-vilte/issuecost/internal/models"
)

// Sessions is the session-lifecycle surface the HTTP layer depends on.
type Sessions interface {
	Submit(ctx context.Context, refs []string, hourlyRate float64) (string, error)
	Progress(id string) (models.Session, error)
}

type AnalysisHandler struct {
	sessions    Sessions
	exportCache *cache.Cache
	trans       *i18n.Translations
	defaultRate float64
	provider    string
}

func NewAnalysisHandler(sessions Sessions, exportCache *cache.Cache, trans *i18n.Translations, defaultRate float64, provider string) *AnalysisHandler {
	return &AnalysisHandler{
		sessions:    sessions,
		exportCache: exportCache,
		trans:       trans,
		defaultRate: defaultRate,
		provider:    provider,
	}
}

type analyzeRequest struct {
	RepoURLs []string `json:"repo_urls"`
	// RepoURL is the legacy single-repository field, still accepted.
	RepoURL    string   `json:"repo_url"`
	HourlyRate *float64 `json:"hourly_rate"`
}

// Analyze accepts an analysis request and starts it in the background.
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logger.FromContext(ctx)

	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("invalid analyze request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	refs := req.RepoURLs
	if len(refs) == 0 && req.RepoURL != "" {
		refs = []string{req.RepoURL}
	}

	rate := h.defaultRate
	if req.HourlyRate != nil {
		rate = *req.HourlyRate
	}

	id, err := h.sessions.Submit(ctx, refs, rate)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"session_id": id,
		"message":    h.trans.GetMessage("analysis_started", 0, nil),
		"repo_count": len(refs),
	})
}

// Progress reports the state of a session. An unknown id is reported in the
// body, not only by the status code, so pollers can render it directly.
func (h *AnalysisHandler) Progress(c *fiber.Ctx) error {
	id := c.Params("session_id")

	session, err := h.sessions.Progress(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":   models.StatusNotFound,
			"progress": 0,
			"message":  h.trans.GetMessage("session_not_found", 0, nil),
		})
	}

	return c.JSON(session)
}

type exportRequest struct {
	CacheKey string                 `json:"cache_key"`
	Issues   []models.AnalyzedIssue `json:"issues"`
}

// DownloadCSV renders issues as a CSV attachment. The issues come either from
// a cached repository result or inline from the request body.
func (h *AnalysisHandler) DownloadCSV(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logger.FromContext(ctx)

	var req exportRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("invalid export request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	issues := req.Issues
	if req.CacheKey != "" {
		var result models.RepositoryResult
		hit, err := h.exportCache.Get(req.CacheKey, &result)
		if err != nil || !hit {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": h.trans.GetMessage("no_export_data", 0, nil),
			})
		}
		issues = result.Issues
	}

	if len(issues) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": h.trans.GetMessage("no_export_data", 0, nil),
		})
	}

	payload, err := export.WriteCSV(issues)
	if err != nil {
		log.Error("failed to render CSV", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate CSV",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.DefaultFilename+`"`)
	return c.Send(payload)
}

// Health reports liveness and the configured LLM provider.
func (h *AnalysisHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "healthy",
		"llm_provider": h.provider,
	})
}

func (h *AnalysisHandler) writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if domainErrors.TypeOf(err) == domainErrors.TypeValidation {
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
