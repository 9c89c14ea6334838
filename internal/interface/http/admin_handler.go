package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ymori/visafaq/internal/domain/faq"
	"github.com/ymori/visafaq/internal/domain/generation"
)

type tokenRequest struct {
	AdminKey string `json:"adminKey"`
}

// IssueToken exchanges the admin key for a session token.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	token, expiresAt, err := h.authSvc.IssueToken(req.AdminKey)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expiresAt": expiresAt})
}

// ListEntries returns the active knowledge base with positional indexes.
func (h *Handler) ListEntries(c *gin.Context) {
	entries := h.faqSvc.Entries()
	if entries == nil {
		entries = []faq.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CreateEntry appends a new entry to the active set.
func (h *Handler) CreateEntry(c *gin.Context) {
	var entry faq.Entry
	if err := c.ShouldBindJSON(&entry); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.faqSvc.AddEntry(c.Request.Context(), entry); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": true})
}

// UpdateEntry edits the entry at the given index.
func (h *Handler) UpdateEntry(c *gin.Context) {
	index, ok := entryIndex(c)
	if !ok {
		return
	}
	var upd faq.EntryUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.faqSvc.EditEntry(c.Request.Context(), index, upd); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteEntry removes the entry at the given index.
func (h *Handler) DeleteEntry(c *gin.Context) {
	index, ok := entryIndex(c)
	if !ok {
		return
	}
	if err := h.faqSvc.DeleteEntry(c.Request.Context(), index); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListPending returns the review queue.
func (h *Handler) ListPending(c *gin.Context) {
	pending := h.faqSvc.Pending()
	if pending == nil {
		pending = []faq.PendingEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

// ApprovePending moves a pending entry into the active set.
func (h *Handler) ApprovePending(c *gin.Context) {
	if err := h.faqSvc.ApprovePending(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": true})
}

// RejectPending drops a pending entry.
func (h *Handler) RejectPending(c *gin.Context) {
	if err := h.faqSvc.RejectPending(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"rejected": true})
}

// UpdatePending edits a pending entry before approval.
func (h *Handler) UpdatePending(c *gin.Context) {
	var upd faq.EntryUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.faqSvc.EditPending(c.Request.Context(), c.Param("id"), upd); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// PendingDuplicates surfaces active entries similar to a pending question so
// the reviewer can spot near-duplicates before approving.
func (h *Handler) PendingDuplicates(c *gin.Context) {
	item, ok := h.faqSvc.PendingByID(c.Param("id"))
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no pending entry with that id", nil))
		return
	}
	similar := h.faqSvc.SimilarEntries(item.Question)
	if similar == nil {
		similar = []faq.MatchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": item, "similar": similar})
}

type generateRequest struct {
	Count    int    `json:"count"`
	Category string `json:"category"`
}

// Generate runs a bulk candidate generation batch. Client disconnects stop
// the run cooperatively and the partial report is logged.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	ctx := c.Request.Context()
	report, err := h.genSvc.Generate(ctx, generation.GenerateRequest{
		Count:    req.Count,
		Category: req.Category,
		Stop:     func() bool { return ctx.Err() != nil },
	})
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

// Unsatisfied lists the latest unsatisfied-answer records.
func (h *Handler) Unsatisfied(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	recs, err := h.faqSvc.Unsatisfied(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	if recs == nil {
		recs = []faq.UnsatisfiedRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"records": recs})
}

func entryIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "index must be a non-negative integer", err))
		return 0, false
	}
	return index, true
}
