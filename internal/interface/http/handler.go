package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ymori/visafaq/internal/domain/auth"
	"github.com/ymori/visafaq/internal/domain/faq"
	"github.com/ymori/visafaq/internal/domain/generation"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	faqSvc  faq.Service
	genSvc  generation.Service
	authSvc auth.Service
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, genSvc generation.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc:  faqSvc,
		genSvc:  genSvc,
		authSvc: authSvc,
		logger:  logger.With("component", "http.handler"),
	}
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask answers a customer question: a direct answer, a confirmation request,
// or the fixed fallback message.
func (h *Handler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	answer := h.faqSvc.BestAnswer(c.Request.Context(), req.Question)
	c.JSON(http.StatusOK, answer)
}

type searchRequest struct {
	Question  string  `json:"question"`
	Threshold float64 `json:"threshold"`
}

// Search returns every entry above the threshold with its score breakdown.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	results := h.faqSvc.Search(req.Question, req.Threshold)
	if results == nil {
		results = []faq.MatchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type feedbackRequest struct {
	UserQuestion    string `json:"userQuestion"`
	MatchedQuestion string `json:"matchedQuestion"`
	MatchedAnswer   string `json:"matchedAnswer"`
}

// Feedback records an answer the user rejected and queues an LLM-assisted
// rework of it for review. The rework is best effort: the feedback record is
// the part that must not be lost.
func (h *Handler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	rec := faq.UnsatisfiedRecord{
		UserQuestion:    strings.TrimSpace(req.UserQuestion),
		MatchedQuestion: req.MatchedQuestion,
		MatchedAnswer:   req.MatchedAnswer,
	}
	if err := h.faqSvc.RecordUnsatisfied(c.Request.Context(), rec); err != nil {
		abortWithError(c, domainError(err))
		return
	}

	resp := gin.H{"recorded": true}
	if item, err := h.genSvc.Improve(c.Request.Context(), rec); err != nil {
		h.logger.Warn("feedback improvement failed", "error", err)
	} else {
		resp["pendingId"] = item.ID
	}
	c.JSON(http.StatusAccepted, resp)
}

// Trending returns the most frequent recent questions.
func (h *Handler) Trending(c *gin.Context) {
	queries, err := h.faqSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	if queries == nil {
		queries = []faq.TrendingQuery{}
	}
	c.JSON(http.StatusOK, gin.H{"queries": queries})
}
