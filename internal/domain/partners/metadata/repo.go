package metadata

import (
	"context"
)

// Repository defines read access to the metadata lookup tables.
type Repository interface {
	// FindIdentifierTypes returns the identifier types matching the given keys.
	FindIdentifierTypes(ctx context.Context, keys []string) ([]IdentifierType, error)

	// FindLegalForms returns the legal forms matching the given keys.
	FindLegalForms(ctx context.Context, keys []string) ([]LegalForm, error)

	// FindRegions returns the regions matching the given region codes.
	FindRegions(ctx context.Context, codes []string) ([]Region, error)

	// ListIdentifierTypes returns all identifier types.
	ListIdentifierTypes(ctx context.Context) ([]IdentifierType, error)

	// ListLegalForms returns all legal forms.
	ListLegalForms(ctx context.Context) ([]LegalForm, error)

	// ListRegions returns all regions.
	ListRegions(ctx context.Context) ([]Region, error)
}
