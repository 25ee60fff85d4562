// Package catalogue loads the product catalogue from its CSV export.
package catalogue

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rfpflow/backend/internal/domain"
)

// CSV column headers of the catalogue export
const (
	colSKU               = "sku"
	colProductName       = "product_name"
	colCategory          = "category"
	colConductorMaterial = "conductor_material"
	colConductorSize     = "conductor_size_sqmm"
	colVoltageRating     = "voltage_rating"
	colStandard          = "standard_iec"
	colUnitPrice         = "unit_price"
	colTestPrice         = "test_price"
)

// CSVStore loads product records from a catalogue CSV file. Each Load
// returns a fresh snapshot; the file is the source of truth.
type CSVStore struct {
	path  string
	debug bool
}

// NewCSVStore creates a catalogue store for the given CSV path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// SetDebug toggles row-level logging
func (s *CSVStore) SetDebug(debug bool) {
	s.debug = debug
}

// Load reads the full catalogue. Rows without a SKU are skipped; rows with
// unparseable numeric cells keep the raw text so the matching engine can
// surface the exclusion instead of the loader hiding it.
func (s *CSVStore) Load(ctx context.Context) ([]domain.ProductRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogueUnavailable, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogueUnavailable, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: catalogue file has no data rows", domain.ErrCatalogueUnavailable)
	}

	columns, err := indexColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogueUnavailable, err)
	}

	products := make([]domain.ProductRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		product, ok := s.parseRow(columns, row)
		if !ok {
			if s.debug {
				log.Printf("[CATALOGUE] Skipping row %d: no SKU", i+2)
			}
			continue
		}
		products = append(products, product)
	}

	if s.debug {
		log.Printf("[CATALOGUE] Loaded %d products from %s", len(products), s.path)
	}
	return products, nil
}

// indexColumns maps the required header names to their positions
func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{colSKU, colProductName, colUnitPrice} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("catalogue file missing required column %q", required)
		}
	}
	return columns, nil
}

// parseRow builds one product record from a CSV row
func (s *CSVStore) parseRow(columns map[string]int, row []string) (domain.ProductRecord, bool) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	sku := cell(colSKU)
	if sku == "" {
		return domain.ProductRecord{}, false
	}

	product := domain.ProductRecord{
		SKU:       sku,
		Name:      cell(colProductName),
		Category:  cell(colCategory),
		Specs:     make(domain.TechSpecs),
		Standards: splitStandards(cell(colStandard)),
		UnitPrice: parsePrice(cell(colUnitPrice)),
		TestPrice: parsePrice(cell(colTestPrice)),
	}

	if material := cell(colConductorMaterial); material != "" {
		product.Specs["conductor_material"] = domain.TextSpec(material)
	}
	if product.Category != "" {
		product.Specs["category"] = domain.TextSpec(product.Category)
	}
	setNumericSpec(product.Specs, "conductor_size", cell(colConductorSize))
	setNumericSpec(product.Specs, "voltage_rating", cell(colVoltageRating))

	return product, true
}

// setNumericSpec stores a numeric cell, keeping unparseable non-empty text
// as a categorical value so the engine records it as uncomparable.
func setNumericSpec(specs domain.TechSpecs, name, raw string) {
	if raw == "" {
		return
	}
	if number, err := strconv.ParseFloat(raw, 64); err == nil {
		specs[name] = domain.NumberSpec(number)
		return
	}
	specs[name] = domain.TextSpec(raw)
}

// parsePrice parses a price cell. Unparseable cells become -1 so the engine
// excludes the product with a recorded reason instead of scoring it.
func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return -1
	}
	return price
}

// splitStandards parses the multi-value standards column
func splitStandards(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '|' || r == '/'
	})
	standards := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			standards = append(standards, trimmed)
		}
	}
	return standards
}
