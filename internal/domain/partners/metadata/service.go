package metadata

import (
	"context"
	"fmt"
	"sort"
)

// Service resolves metadata references for the build pipeline.
type Service struct {
	repo Repository
}

// NewService creates a metadata resolver backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve fetches the lookup records for all keys in one pass per table.
// Pure read; missing keys are absent from the returned maps.
func (s *Service) Resolve(ctx context.Context, keys Keys) (Resolved, error) {
	resolved := Resolved{
		IDTypes:    make(map[string]IdentifierType),
		LegalForms: make(map[string]LegalForm),
		Regions:    make(map[string]Region),
	}

	if ks := dedupe(keys.IdentifierTypes); len(ks) > 0 {
		types, err := s.repo.FindIdentifierTypes(ctx, ks)
		if err != nil {
			return Resolved{}, fmt.Errorf("resolve identifier types: %w", err)
		}
		for _, t := range types {
			resolved.IDTypes[t.TechnicalKey] = t
		}
	}

	if ks := dedupe(keys.LegalForms); len(ks) > 0 {
		forms, err := s.repo.FindLegalForms(ctx, ks)
		if err != nil {
			return Resolved{}, fmt.Errorf("resolve legal forms: %w", err)
		}
		for _, f := range forms {
			resolved.LegalForms[f.TechnicalKey] = f
		}
	}

	if ks := dedupe(keys.Regions); len(ks) > 0 {
		regions, err := s.repo.FindRegions(ctx, ks)
		if err != nil {
			return Resolved{}, fmt.Errorf("resolve regions: %w", err)
		}
		for _, r := range regions {
			resolved.Regions[r.RegionCode] = r
		}
	}

	return resolved, nil
}

// ListIdentifierTypes returns all known identifier types.
func (s *Service) ListIdentifierTypes(ctx context.Context) ([]IdentifierType, error) {
	return s.repo.ListIdentifierTypes(ctx)
}

// ListLegalForms returns all known legal forms.
func (s *Service) ListLegalForms(ctx context.Context) ([]LegalForm, error) {
	return s.repo.ListLegalForms(ctx)
}

// ListRegions returns all known regions.
func (s *Service) ListRegions(ctx context.Context) ([]Region, error) {
	return s.repo.ListRegions(ctx)
}

// dedupe returns the sorted distinct non-empty keys.
func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
