package handlers

import (
	"github.com/gin-gonic/gin"

	"bpdm/internal/domain/partners/build"
	"bpdm/internal/domain/partners/query"
	"bpdm/internal/infrastructure/http/v1/dto"
)

// AddressHandler handles standalone address endpoints.
type AddressHandler struct {
	*BaseHandler
	builder *build.Service
	reader  *query.Service
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(base *BaseHandler, builder *build.Service, reader *query.Service) *AddressHandler {
	return &AddressHandler{BaseHandler: base, builder: builder, reader: reader}
}

// Create handles batch creation of additional addresses.
// POST /api/v1/addresses
func (h *AddressHandler) Create(c *gin.Context) {
	var requests []build.AddressCreateRequest
	if !h.BindJSON(c, &requests) {
		return
	}

	resp, err := h.builder.CreateAddresses(c.Request.Context(), requests)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resp)
}

// Update handles batch update of addresses.
// PUT /api/v1/addresses
func (h *AddressHandler) Update(c *gin.Context) {
	var requests []build.AddressUpdateRequest
	if !h.BindJSON(c, &requests) {
		return
	}

	resp, err := h.builder.UpdateAddresses(c.Request.Context(), requests)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resp)
}

// Get retrieves a single address.
// GET /api/v1/addresses/:bpna
func (h *AddressHandler) Get(c *gin.Context) {
	addr, err := h.reader.GetAddress(c.Request.Context(), c.Param("bpna"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, addr)
}

// List retrieves addresses with filtering and pagination.
// GET /api/v1/addresses
func (h *AddressHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.reader.ListAddresses(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
