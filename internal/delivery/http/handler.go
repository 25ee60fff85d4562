package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rfpflow/backend/internal/domain"
	"github.com/rfpflow/backend/internal/usecase"
)

// Pipeline stage names reported to clients on failure
const (
	stageScraping  = "scraping"
	stageMatching  = "matching"
	stageProposals = "proposals"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pipeline *usecase.PipelineService
}

// NewHandler creates a new HTTP handler
func NewHandler(pipeline *usecase.PipelineService) *Handler {
	return &Handler{pipeline: pipeline}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "rfpflow-backend",
		"version": "1.0.0",
	})
}

// RunPipeline executes the complete scrape -> match -> generate flow
func (h *Handler) RunPipeline(c *gin.Context) {
	result, err := h.pipeline.Run(c.Request.Context())
	if err != nil {
		h.respondStageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"summary":       result.Summary,
		"scraped_rfps":  result.RFPs,
		"match_results": matchResponse(result.Items),
		"proposals":     result.Proposals,
	})
}

// Scrape fetches RFP listings only
func (h *Handler) Scrape(c *gin.Context) {
	rfps, err := h.pipeline.Scrape(c.Request.Context())
	if err != nil {
		h.respondStageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(rfps),
		"data":    rfps,
	})
}

// matchRequest optionally carries caller-supplied requirements; when absent
// the most recent scrape is matched instead.
type matchRequest struct {
	RFPs []domain.RFPRequirement `json:"rfps"`
}

// Match runs the matching engine over scraped or caller-supplied RFPs
func (h *Handler) Match(c *gin.Context) {
	var req matchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid request body: " + err.Error(),
				"stage": stageMatching,
			})
			return
		}
	}

	var items []domain.BatchItem
	var err error
	if len(req.RFPs) > 0 {
		items, err = h.pipeline.MatchRequirements(c.Request.Context(), req.RFPs)
	} else {
		items, err = h.pipeline.MatchScraped(c.Request.Context())
	}
	if err != nil {
		h.respondStageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    matchResponse(items),
	})
}

// Proposals renders proposal documents from the latest matching run
func (h *Handler) Proposals(c *gin.Context) {
	proposals, err := h.pipeline.Proposals(c.Request.Context())
	if err != nil {
		h.respondStageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(proposals),
		"data":    proposals,
	})
}

// matchItem is the wire shape of one batch position
type matchItem struct {
	Record *domain.MatchRecord `json:"record,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// matchResponse converts batch items to their wire shape, preserving order
func matchResponse(items []domain.BatchItem) []matchItem {
	out := make([]matchItem, len(items))
	for i, item := range items {
		out[i].Record = item.Record
		if item.Err != nil {
			out[i].Error = item.Err.Error()
		}
	}
	return out
}

// respondStageError maps pipeline errors to a client error naming the
// responsible stage
func (h *Handler) respondStageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrListingUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "stage": stageScraping})
	case errors.Is(err, domain.ErrNoListings):
		c.JSON(http.StatusNotFound, gin.H{"error": "no RFPs found", "stage": stageScraping})
	case errors.Is(err, domain.ErrNoScrapedData):
		c.JSON(http.StatusConflict, gin.H{"error": "no scraped RFPs available - run the scrape step first", "stage": stageMatching})
	case errors.Is(err, domain.ErrCatalogueUnavailable), errors.Is(err, domain.ErrEmptyCatalogue):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "stage": stageMatching})
	case errors.Is(err, domain.ErrMalformedRequirement):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "stage": stageMatching})
	case errors.Is(err, domain.ErrNoMatchData):
		c.JSON(http.StatusConflict, gin.H{"error": "no match results available - run the match step first", "stage": stageProposals})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
