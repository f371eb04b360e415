package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"webgen_server/internal/ai"
	"webgen_server/internal/assemble"
	"webgen_server/internal/extract"
	"webgen_server/internal/prompts"
)

// APIHandler holds dependencies for the generation endpoint. Handlers
// share nothing mutable: every request is independent.
type APIHandler struct {
	generator         *ai.Generator
	metrics           *Metrics
	systemInstruction string
	cssMaxChars       int
	jsMaxChars        int
	snippetMaxChars   int
}

func NewAPIHandler(gen *ai.Generator, metrics *Metrics, systemInstruction string, cssMaxChars, jsMaxChars, snippetMaxChars int) *APIHandler {
	if systemInstruction == "" {
		systemInstruction = prompts.SystemInstruction
	}
	return &APIHandler{
		generator:         gen,
		metrics:           metrics,
		systemInstruction: systemInstruction,
		cssMaxChars:       cssMaxChars,
		jsMaxChars:        jsMaxChars,
		snippetMaxChars:   snippetMaxChars,
	}
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// POST /generate
func (h *APIHandler) GenerateWebsite(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.observe(outcomeInvalidRequest, 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		h.metrics.observe(outcomeInvalidRequest, 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	requestID := uuid.New().String()
	log.Printf("Generation request %s received (prompt: %d chars)", requestID, len(req.Prompt))

	prompt := prompts.Compose(req.Prompt, h.cssMaxChars, h.jsMaxChars)

	start := time.Now()
	raw, err := h.generator.Generate(c.Request.Context(), prompt, h.systemInstruction)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		h.respondUpstreamError(c, requestID, err, elapsed)
		return
	}

	site, err := extract.Extract(raw)
	if err != nil {
		h.respondExtractionError(c, requestID, err, raw, elapsed)
		return
	}

	h.metrics.observe(outcomeSuccess, elapsed)
	log.Printf("Generation request %s succeeded in %.1fs (html: %d, css: %d, js: %d chars)",
		requestID, elapsed, len(site.HTML), len(site.CSS), len(site.JS))
	c.JSON(http.StatusOK, site)
}

func (h *APIHandler) respondUpstreamError(c *gin.Context, requestID string, err error, elapsed float64) {
	if errors.Is(err, ai.ErrUpstreamTimeout) {
		h.metrics.observe(outcomeUpstreamTimeout, elapsed)
		log.Printf("Generation request %s timed out after %.1fs", requestID, elapsed)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Website generation failed",
			"details":    ai.ErrUpstreamTimeout.Error(),
			"suggestion": "Please try a simpler request",
		})
		return
	}

	h.metrics.observe(outcomeUpstreamError, elapsed)
	details := "AI service is unavailable"
	var upstream *ai.UpstreamError
	if errors.As(err, &upstream) {
		// Message is pre-sanitized; the raw provider error stays in
		// the server log only.
		details = upstream.Message
		log.Printf("Generation request %s upstream failure: %v", requestID, upstream.Err)
	} else {
		log.Printf("Generation request %s failed: %v", requestID, err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      "Website generation failed",
		"details":    details,
		"suggestion": "Please try a simpler request",
	})
}

func (h *APIHandler) respondExtractionError(c *gin.Context, requestID string, err error, raw string, elapsed float64) {
	var malformed *extract.MalformedJSONError
	var incomplete *extract.IncompleteResultError
	switch {
	case errors.Is(err, extract.ErrNoJSONFound):
		h.metrics.observe(outcomeNoJSON, elapsed)
	case errors.As(err, &malformed):
		h.metrics.observe(outcomeMalformedJSON, elapsed)
	case errors.As(err, &incomplete):
		h.metrics.observe(outcomeIncomplete, elapsed)
	default:
		h.metrics.observe(outcomeMalformedJSON, elapsed)
	}

	log.Printf("Generation request %s extraction failure: %v", requestID, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":           "Failed to parse AI response",
		"details":         err.Error(),
		"suggestion":      "Please try a different prompt",
		"responseSnippet": assemble.Snippet(raw, h.snippetMaxChars),
	})
}

// GET /health
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
