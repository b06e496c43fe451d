package handlers

import (
	"github.com/gin-gonic/gin"

	"bpdm/internal/domain/partners/query"
	"bpdm/internal/infrastructure/http/v1/dto"
)

// ChangelogHandler handles changelog retrieval.
type ChangelogHandler struct {
	*BaseHandler
	reader *query.Service
}

// NewChangelogHandler creates a new changelog handler.
func NewChangelogHandler(base *BaseHandler, reader *query.Service) *ChangelogHandler {
	return &ChangelogHandler{BaseHandler: base, reader: reader}
}

// List retrieves journal entries for the given BPNs, newest first.
// GET /api/v1/changelog?bpns=...&limit=...
func (h *ChangelogHandler) List(c *gin.Context) {
	var q dto.ChangelogQuery
	if !h.BindQuery(c, &q) {
		return
	}

	entries, err := h.reader.Changelog(c.Request.Context(), q.BPNs, q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"entries": entries})
}
