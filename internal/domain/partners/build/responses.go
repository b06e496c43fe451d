package build

import (
	"bpdm/internal/core/apperror"
	"bpdm/internal/domain/partners/address"
	"bpdm/internal/domain/partners/legalentity"
	"bpdm/internal/domain/partners/site"
)

// ErrorInfo reports a per-request failure. RequestKey is the create request's
// Index or the update request's BPN; sibling requests are unaffected.
type ErrorInfo struct {
	RequestKey string `json:"requestKey"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Response is the wrapper every pipeline operation returns: successes
// position-matched to the valid requests, plus the accumulated per-request
// errors. A batch-fatal error is returned as a plain error instead.
type Response[T any] struct {
	Entities []T         `json:"entities"`
	Errors   []ErrorInfo `json:"errors"`
}

// LegalEntityResult is one successfully created/updated legal entity with its
// legal address.
type LegalEntityResult struct {
	Index        string                   `json:"index,omitempty"`
	LegalEntity  *legalentity.LegalEntity `json:"legalEntity"`
	LegalAddress *address.Address         `json:"legalAddress"`
}

// SiteResult is one successfully created/updated site with its main address.
type SiteResult struct {
	Index       string           `json:"index,omitempty"`
	Site        *site.Site       `json:"site"`
	MainAddress *address.Address `json:"mainAddress"`
}

// AddressResult is one successfully created/updated address.
type AddressResult struct {
	Index   string           `json:"index,omitempty"`
	Address *address.Address `json:"address"`
}

// newErrorInfo converts an error into the per-request report shape.
func newErrorInfo(requestKey string, err error) ErrorInfo {
	if appErr, ok := apperror.AsAppError(err); ok {
		return ErrorInfo{RequestKey: requestKey, Code: appErr.Code, Message: appErr.Message}
	}
	return ErrorInfo{RequestKey: requestKey, Code: apperror.CodeInternal, Message: err.Error()}
}
