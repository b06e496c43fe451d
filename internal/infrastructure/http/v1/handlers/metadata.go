package handlers

import (
	"github.com/gin-gonic/gin"

	"bpdm/internal/domain/partners/metadata"
)

// MetadataHandler serves the administrative lookup tables.
type MetadataHandler struct {
	*BaseHandler
	service *metadata.Service
}

// NewMetadataHandler creates a new metadata handler.
func NewMetadataHandler(base *BaseHandler, service *metadata.Service) *MetadataHandler {
	return &MetadataHandler{BaseHandler: base, service: service}
}

// ListIdentifierTypes returns all known identifier types.
// GET /api/v1/metadata/identifier-types
func (h *MetadataHandler) ListIdentifierTypes(c *gin.Context) {
	items, err := h.service.ListIdentifierTypes(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": items})
}

// ListLegalForms returns all known legal forms.
// GET /api/v1/metadata/legal-forms
func (h *MetadataHandler) ListLegalForms(c *gin.Context) {
	items, err := h.service.ListLegalForms(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": items})
}

// ListRegions returns all known regions.
// GET /api/v1/metadata/regions
func (h *MetadataHandler) ListRegions(c *gin.Context) {
	items, err := h.service.ListRegions(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": items})
}
