// Package main provides a CLI tool for seeding the metadata lookup tables.
package main

import (
	"context"
	"fmt"
	"os"

	"bpdm/internal/infrastructure/storage/postgres"
	"bpdm/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedIdentifierTypes(ctx, pool); err != nil {
		log.Fatalw("failed to seed identifier types", "error", err)
	}
	if err := seedLegalForms(ctx, pool); err != nil {
		log.Fatalw("failed to seed legal forms", "error", err)
	}
	if err := seedRegions(ctx, pool); err != nil {
		log.Fatalw("failed to seed regions", "error", err)
	}

	log.Info("seeding completed")
}

func seedIdentifierTypes(ctx context.Context, pool *postgres.Pool) error {
	types := []struct {
		key  string
		name string
	}{
		{"EU_VAT_ID_DE", "Value Added Tax Identification Number (Germany)"},
		{"EU_VAT_ID_FR", "Value Added Tax Identification Number (France)"},
		{"DE_BNUM", "German Commercial Register Number"},
		{"DUNS_ID", "Dun & Bradstreet D-U-N-S Number"},
		{"GLN", "Global Location Number"},
	}

	for _, t := range types {
		_, err := pool.Exec(ctx, `
			INSERT INTO md_identifier_types (technical_key, name)
			VALUES ($1, $2)
			ON CONFLICT (technical_key) DO UPDATE SET name = EXCLUDED.name
		`, t.key, t.name)
		if err != nil {
			return fmt.Errorf("insert identifier type %s: %w", t.key, err)
		}
	}
	return nil
}

func seedLegalForms(ctx context.Context, pool *postgres.Pool) error {
	forms := []struct {
		key          string
		name         string
		abbreviation string
	}{
		{"GMBH", "Gesellschaft mit beschränkter Haftung", "GmbH"},
		{"AG", "Aktiengesellschaft", "AG"},
		{"KG", "Kommanditgesellschaft", "KG"},
		{"UG", "Unternehmergesellschaft (haftungsbeschränkt)", "UG"},
		{"SARL", "Société à responsabilité limitée", "SARL"},
		{"SA", "Société anonyme", "SA"},
		{"LTD", "Private Limited Company", "Ltd."},
	}

	for _, f := range forms {
		_, err := pool.Exec(ctx, `
			INSERT INTO md_legal_forms (technical_key, name, abbreviation)
			VALUES ($1, $2, $3)
			ON CONFLICT (technical_key) DO UPDATE
			SET name = EXCLUDED.name, abbreviation = EXCLUDED.abbreviation
		`, f.key, f.name, f.abbreviation)
		if err != nil {
			return fmt.Errorf("insert legal form %s: %w", f.key, err)
		}
	}
	return nil
}

func seedRegions(ctx context.Context, pool *postgres.Pool) error {
	regions := []struct {
		countryCode string
		regionCode  string
		regionName  string
	}{
		{"DE", "DE-BW", "Baden-Württemberg"},
		{"DE", "DE-BY", "Bayern"},
		{"DE", "DE-BE", "Berlin"},
		{"DE", "DE-HE", "Hessen"},
		{"DE", "DE-NW", "Nordrhein-Westfalen"},
		{"FR", "FR-IDF", "Île-de-France"},
		{"FR", "FR-ARA", "Auvergne-Rhône-Alpes"},
		{"US", "US-CA", "California"},
		{"US", "US-NY", "New York"},
	}

	for _, r := range regions {
		_, err := pool.Exec(ctx, `
			INSERT INTO md_regions (country_code, region_code, region_name)
			VALUES ($1, $2, $3)
			ON CONFLICT (region_code) DO UPDATE
			SET country_code = EXCLUDED.country_code, region_name = EXCLUDED.region_name
		`, r.countryCode, r.regionCode, r.regionName)
		if err != nil {
			return fmt.Errorf("insert region %s: %w", r.regionCode, err)
		}
	}
	return nil
}
