package handlers

import (
	"github.com/gin-gonic/gin"

	"bpdm/internal/domain/partners/build"
	"bpdm/internal/domain/partners/query"
	"bpdm/internal/infrastructure/http/v1/dto"
)

// SiteHandler handles site endpoints.
type SiteHandler struct {
	*BaseHandler
	builder *build.Service
	reader  *query.Service
}

// NewSiteHandler creates a new site handler.
func NewSiteHandler(base *BaseHandler, builder *build.Service, reader *query.Service) *SiteHandler {
	return &SiteHandler{BaseHandler: base, builder: builder, reader: reader}
}

// Create handles batch creation of sites with their own main address.
// POST /api/v1/sites
func (h *SiteHandler) Create(c *gin.Context) {
	var requests []build.SiteCreateRequest
	if !h.BindJSON(c, &requests) {
		return
	}

	resp, err := h.builder.CreateSites(c.Request.Context(), requests)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resp)
}

// CreateWithLegalReference handles batch creation of sites whose main address
// aliases the parent's legal address.
// POST /api/v1/sites/legal-main-sites
func (h *SiteHandler) CreateWithLegalReference(c *gin.Context) {
	var requests []build.SiteWithLegalReferenceRequest
	if !h.BindJSON(c, &requests) {
		return
	}

	resp, err := h.builder.CreateSitesWithLegalReference(c.Request.Context(), requests)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resp)
}

// Update handles batch update of sites.
// PUT /api/v1/sites
func (h *SiteHandler) Update(c *gin.Context) {
	var requests []build.SiteUpdateRequest
	if !h.BindJSON(c, &requests) {
		return
	}

	resp, err := h.builder.UpdateSites(c.Request.Context(), requests)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resp)
}

// Get retrieves a single site.
// GET /api/v1/sites/:bpns
func (h *SiteHandler) Get(c *gin.Context) {
	st, err := h.reader.GetSite(c.Request.Context(), c.Param("bpns"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, st)
}

// List retrieves sites with filtering and pagination.
// GET /api/v1/sites
func (h *SiteHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.reader.ListSites(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
