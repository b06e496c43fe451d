package handlers

import (
	"github.com/gin-gonic/gin"

	"bpdm/internal/domain/partners/build"
	"bpdm/internal/domain/partners/query"
	"bpdm/internal/infrastructure/http/v1/dto"
)

// LegalEntityHandler handles legal entity endpoints.
type LegalEntityHandler struct {
	*BaseHandler
	builder *build.Service
	reader  *query.Service
}

// NewLegalEntityHandler creates a new legal entity handler.
func NewLegalEntityHandler(base *BaseHandler, builder *build.Service, reader *query.Service) *LegalEntityHandler {
	return &LegalEntityHandler{BaseHandler: base, builder: builder, reader: reader}
}

// Create handles batch creation of legal entities.
// POST /api/v1/legal-entities
func (h *LegalEntityHandler) Create(c *gin.Context) {
	var requests []build.LegalEntityCreateRequest
	if !h.BindJSON(c, &requests) {
		return
	}

	resp, err := h.builder.CreateLegalEntities(c.Request.Context(), requests)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resp)
}

// Update handles batch update of legal entities.
// PUT /api/v1/legal-entities
func (h *LegalEntityHandler) Update(c *gin.Context) {
	var requests []build.LegalEntityUpdateRequest
	if !h.BindJSON(c, &requests) {
		return
	}

	resp, err := h.builder.UpdateLegalEntities(c.Request.Context(), requests)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resp)
}

// ConfirmCurrentness re-attests a legal entity without changing its payload.
// POST /api/v1/legal-entities/:bpnl/confirm-currentness
func (h *LegalEntityHandler) ConfirmCurrentness(c *gin.Context) {
	le, err := h.builder.RefreshCurrentness(c.Request.Context(), c.Param("bpnl"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, le)
}

// Get retrieves a single legal entity.
// GET /api/v1/legal-entities/:bpnl
func (h *LegalEntityHandler) Get(c *gin.Context) {
	le, err := h.reader.GetLegalEntity(c.Request.Context(), c.Param("bpnl"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, le)
}

// List retrieves legal entities with filtering and pagination.
// GET /api/v1/legal-entities
func (h *LegalEntityHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.reader.ListLegalEntities(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
