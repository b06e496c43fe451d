package partner_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bpdm/internal/domain/partners/metadata"
	"bpdm/internal/infrastructure/storage/postgres"
)

const (
	identifierTypeTable = "md_identifier_types"
	legalFormTable      = "md_legal_forms"
	regionTable         = "md_regions"
)

// MetadataRepo implements metadata.Repository over the lookup tables.
// Read-only; the lookup tables are maintained by migrations/seeding.
type MetadataRepo struct {
	txManager *postgres.TxManager
}

// Ensure compile-time interface compliance.
var _ metadata.Repository = (*MetadataRepo)(nil)

// NewMetadataRepo creates a new metadata repository.
func NewMetadataRepo(txManager *postgres.TxManager) *MetadataRepo {
	return &MetadataRepo{txManager: txManager}
}

func (r *MetadataRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *MetadataRepo) selectInto(ctx context.Context, dst any, q squirrel.SelectBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), dst, sql, args...); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	return nil
}

// FindIdentifierTypes returns the identifier types matching the given keys.
func (r *MetadataRepo) FindIdentifierTypes(ctx context.Context, keys []string) ([]metadata.IdentifierType, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var items []metadata.IdentifierType
	q := r.builder().
		Select("technical_key", "name").
		From(identifierTypeTable).
		Where(squirrel.Eq{"technical_key": keys})
	if err := r.selectInto(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// FindLegalForms returns the legal forms matching the given keys.
func (r *MetadataRepo) FindLegalForms(ctx context.Context, keys []string) ([]metadata.LegalForm, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var items []metadata.LegalForm
	q := r.builder().
		Select("technical_key", "name", "abbreviation").
		From(legalFormTable).
		Where(squirrel.Eq{"technical_key": keys})
	if err := r.selectInto(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// FindRegions returns the regions matching the given region codes.
func (r *MetadataRepo) FindRegions(ctx context.Context, codes []string) ([]metadata.Region, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var items []metadata.Region
	q := r.builder().
		Select("country_code", "region_code", "region_name").
		From(regionTable).
		Where(squirrel.Eq{"region_code": codes})
	if err := r.selectInto(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// ListIdentifierTypes returns all identifier types.
func (r *MetadataRepo) ListIdentifierTypes(ctx context.Context) ([]metadata.IdentifierType, error) {
	var items []metadata.IdentifierType
	q := r.builder().
		Select("technical_key", "name").
		From(identifierTypeTable).
		OrderBy("technical_key ASC")
	if err := r.selectInto(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// ListLegalForms returns all legal forms.
func (r *MetadataRepo) ListLegalForms(ctx context.Context) ([]metadata.LegalForm, error) {
	var items []metadata.LegalForm
	q := r.builder().
		Select("technical_key", "name", "abbreviation").
		From(legalFormTable).
		OrderBy("technical_key ASC")
	if err := r.selectInto(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// ListRegions returns all regions.
func (r *MetadataRepo) ListRegions(ctx context.Context) ([]metadata.Region, error) {
	var items []metadata.Region
	q := r.builder().
		Select("country_code", "region_code", "region_name").
		From(regionTable).
		OrderBy("region_code ASC")
	if err := r.selectInto(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}
