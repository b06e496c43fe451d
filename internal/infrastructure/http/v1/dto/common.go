// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"bpdm/internal/domain/partners"
)

// --- List queries ---

// ListQuery contains the common query parameters for partner list endpoints.
type ListQuery struct {
	Search    string   `form:"search"`
	BPNs      []string `form:"bpns"`
	ParentBPN string   `form:"parentBpn"`
	OrderBy   string   `form:"orderBy"`
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset    int      `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query into a repository filter with defaults applied.
func (q ListQuery) ToFilter() partners.ListFilter {
	filter := partners.DefaultListFilter()
	filter.Search = q.Search
	filter.BPNs = q.BPNs
	filter.ParentBPN = q.ParentBPN
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset
	return filter
}

// ChangelogQuery contains the query parameters for changelog retrieval.
type ChangelogQuery struct {
	BPNs  []string `form:"bpns" binding:"required"`
	Limit int      `form:"limit" binding:"omitempty,min=1,max=500"`
}

// --- Error Response ---

// ErrorResponse documents the error body produced by the error middleware.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
