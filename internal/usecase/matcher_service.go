package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/rfpflow/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// Scoring parameters
const (
	defaultMinConfidence   = 60.0 // percent
	defaultCeilingMultiple = 3.0  // partial numeric credit fades out at 3x tolerance
	scoreEpsilon           = 1e-9 // two scores within this are a tie
	numericEpsilon         = 1e-9 // guards division for zero-valued requirements
)

// MatcherConfig holds configuration for the matching service.
// A MinConfidence of zero or below selects the default threshold; a gate
// that accepts every candidate is configured with a small positive value
// such as 0.01, not with zero.
type MatcherConfig struct {
	MinConfidence            float64
	FieldWeights             map[string]float64
	NumericTolerance         map[string]float64
	ToleranceCeilingMultiple float64
	EnableDebugLogging       bool
}

// MatcherService scores every catalogue product against an RFP requirement
// and deterministically selects the best candidate, subject to a minimum
// confidence gate. It is a pure computation: no I/O, no shared state beyond
// the read-only catalogue snapshot passed into each call.
type MatcherService struct {
	minConfidence   float64
	weights         map[string]float64
	tolerances      map[string]float64
	ceilingMultiple float64
	debug           bool
}

// NewMatcherService validates the configuration and creates the service.
// Unknown or mistyped spec field names in weights or tolerances are rejected
// here so they fail at startup instead of silently scoring as zero weight.
func NewMatcherService(config MatcherConfig) (*MatcherService, error) {
	minConfidence := config.MinConfidence
	if minConfidence <= 0 {
		minConfidence = defaultMinConfidence
	}
	if minConfidence > 100 {
		return nil, fmt.Errorf("minimum confidence must be within [0,100], got %.2f", config.MinConfidence)
	}

	ceilingMultiple := config.ToleranceCeilingMultiple
	if ceilingMultiple <= 0 {
		ceilingMultiple = defaultCeilingMultiple
	}

	weights := make(map[string]float64, len(config.FieldWeights))
	for name, weight := range config.FieldWeights {
		if _, known := domain.SpecFields[name]; !known {
			return nil, fmt.Errorf("field weight references unknown spec field %q", name)
		}
		if weight <= 0 {
			return nil, fmt.Errorf("field weight for %q must be positive, got %v", name, weight)
		}
		weights[name] = weight
	}

	tolerances := make(map[string]float64, len(config.NumericTolerance))
	for name, tolerance := range config.NumericTolerance {
		kind, known := domain.SpecFields[name]
		if !known {
			return nil, fmt.Errorf("numeric tolerance references unknown spec field %q", name)
		}
		if kind != domain.SpecNumeric {
			return nil, fmt.Errorf("numeric tolerance set for non-numeric spec field %q", name)
		}
		if tolerance < 0 {
			return nil, fmt.Errorf("numeric tolerance for %q must be non-negative, got %v", name, tolerance)
		}
		tolerances[name] = tolerance
	}

	return &MatcherService{
		minConfidence:   minConfidence,
		weights:         weights,
		tolerances:      tolerances,
		ceilingMultiple: ceilingMultiple,
		debug:           config.EnableDebugLogging,
	}, nil
}

// candidate pairs a scored product with the evidence behind its score.
type candidate struct {
	product  *domain.ProductRecord
	score    float64
	evidence map[string]domain.FieldEvidence
}

// beats reports whether c wins over other under the deterministic ordering:
// higher score, then lower unit price, then lexicographically smaller SKU.
func (c *candidate) beats(other *candidate) bool {
	if c.score > other.score+scoreEpsilon {
		return true
	}
	if c.score < other.score-scoreEpsilon {
		return false
	}
	if c.product.UnitPrice != other.product.UnitPrice {
		return c.product.UnitPrice < other.product.UnitPrice
	}
	return c.product.SKU < other.product.SKU
}

// Match scores the full catalogue against one requirement and returns
// exactly one MatchRecord. When no candidate reaches the minimum confidence
// the record carries a nil SKU and the best score observed.
func (s *MatcherService) Match(
	ctx context.Context,
	requirement *domain.RFPRequirement,
	catalogue []domain.ProductRecord,
) (*domain.MatchRecord, error) {
	if requirement == nil || requirement.ID == "" {
		return nil, domain.ErrMalformedRequirement
	}
	if len(catalogue) == 0 {
		return nil, domain.ErrEmptyCatalogue
	}

	if s.debug {
		log.Printf("[MATCH] Scoring RFP %s against %d products", requirement.ID, len(catalogue))
	}

	var excluded []domain.ExcludedProduct
	var best *candidate

	for i := range catalogue {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		product := &catalogue[i]
		if reason, ok := validateProduct(product); !ok {
			excluded = append(excluded, domain.ExcludedProduct{SKU: product.SKU, Reason: reason})
			continue
		}

		cand := s.scoreProduct(requirement, product)

		if s.debug {
			log.Printf("[MATCH] RFP %s x SKU %s: score %.2f", requirement.ID, product.SKU, cand.score)
		}

		if best == nil || cand.beats(best) {
			best = cand
		}
	}

	record := &domain.MatchRecord{
		RFPID:    requirement.ID,
		Evidence: emptyEvidence(requirement),
		Excluded: excluded,
	}

	if best == nil {
		// Every product was excluded as malformed; the exclusions above are
		// the only evidence this call can offer.
		return record, nil
	}

	record.Confidence = best.score
	record.Evidence = best.evidence

	if best.score >= s.minConfidence {
		sku := best.product.SKU
		record.SKU = &sku
		record.Product = displayFields(best.product)
	}

	if s.debug {
		log.Printf("[MATCH] RFP %s best: SKU %s at %.2f%% (threshold %.2f%%)",
			requirement.ID, best.product.SKU, best.score, s.minConfidence)
	}

	return record, nil
}

// MatchBatch applies Match to each requirement independently, preserving
// input order. A failure on one requirement is captured in its slot rather
// than aborting the siblings.
func (s *MatcherService) MatchBatch(
	ctx context.Context,
	requirements []domain.RFPRequirement,
	catalogue []domain.ProductRecord,
) []domain.BatchItem {
	items := make([]domain.BatchItem, len(requirements))
	for i := range requirements {
		record, err := s.Match(ctx, &requirements[i], catalogue)
		items[i] = domain.BatchItem{Record: record, Err: err}
	}
	return items
}

// scoreProduct computes the weighted score for one RFP x product pair and
// collects per-field evidence covering every spec present in the requirement.
// Fields unknown on the product side are excluded from the weighted
// denominator entirely: an unknown value must neither count as a match nor
// be penalized as a disagreement.
func (s *MatcherService) scoreProduct(
	requirement *domain.RFPRequirement,
	product *domain.ProductRecord,
) *candidate {
	evidence := make(map[string]domain.FieldEvidence, len(requirement.Specs))
	var weightedSum, weightTotal float64

	// Sorted field order keeps float accumulation identical across calls.
	for _, name := range sortedFieldNames(requirement.Specs) {
		rfpValue := requirement.Specs[name]

		kind, known := domain.SpecFields[name]
		if !known {
			evidence[name] = domain.FieldEvidence{
				RFPValue: rfpValue.String(),
				Note:     "unrecognized spec field",
			}
			continue
		}

		productValue, present := productSpec(product, name)
		if !present {
			evidence[name] = domain.FieldEvidence{
				RFPValue: rfpValue.String(),
				Note:     "not specified by product",
			}
			continue
		}

		if rfpValue.Kind != kind || productValue.Kind != kind {
			// Uncomparable value: skip scoring for this pair but keep the
			// comparison visible in the evidence.
			evidence[name] = domain.FieldEvidence{
				RFPValue:     rfpValue.String(),
				ProductValue: productValue.String(),
				Note:         "value not comparable",
			}
			continue
		}

		var indicator float64
		switch kind {
		case domain.SpecNumeric:
			indicator = s.numericIndicator(name, rfpValue.Number, productValue.Number)
		default:
			if name == "standard" {
				indicator = standardIndicator(rfpValue.Text, product.Standards)
			} else {
				indicator = categoricalIndicator(rfpValue.Text, productValue.Text)
			}
		}

		weight := s.fieldWeight(name)
		weightedSum += indicator * weight
		weightTotal += weight

		evidence[name] = domain.FieldEvidence{
			RFPValue:     rfpValue.String(),
			ProductValue: productValue.String(),
			Matched:      indicator >= 1-scoreEpsilon,
		}
	}

	score := 0.0
	if weightTotal > 0 {
		score = weightedSum / weightTotal * 100
	}

	return &candidate{product: product, score: round2(score), evidence: evidence}
}

// numericIndicator gives full credit within the per-field relative tolerance
// and partial credit proportional to closeness up to a ceiling, so near
// misses from differently rounded sources are not an all-or-nothing cliff.
// A zero tolerance means exact match required, with no partial credit.
func (s *MatcherService) numericIndicator(name string, rfpValue, productValue float64) float64 {
	diff := math.Abs(rfpValue - productValue)
	relative := diff / math.Max(math.Abs(rfpValue), numericEpsilon)

	tolerance := s.tolerances[name]
	if relative <= tolerance+numericEpsilon {
		return 1.0
	}
	if tolerance == 0 {
		return 0.0
	}

	ceiling := tolerance * s.ceilingMultiple
	credit := 1 - relative/ceiling
	if credit < 0 {
		return 0.0
	}
	if credit > 1 {
		return 1.0
	}
	return credit
}

// fieldWeight returns the configured weight for a field, defaulting to 1.0
// so unconfigured schemas score uniformly.
func (s *MatcherService) fieldWeight(name string) float64 {
	if weight, ok := s.weights[name]; ok {
		return weight
	}
	return 1.0
}

// categoricalIndicator compares two text values case-insensitively with
// whitespace normalization.
func categoricalIndicator(rfpValue, productValue string) float64 {
	if normalizeText(rfpValue) == normalizeText(productValue) {
		return 1.0
	}
	return 0.0
}

// standardIndicator treats the product's standard set as matching when the
// required standard is a member of it. Membership is binary even when other
// fields earn partial credit.
func standardIndicator(required string, standards []string) float64 {
	want := normalizeText(required)
	for _, standard := range standards {
		if normalizeText(standard) == want {
			return 1.0
		}
	}
	return 0.0
}

// productSpec resolves a requirement field name to the product-side value.
// The standard set and category column live outside the spec map on
// ProductRecord, so they are bridged here.
func productSpec(product *domain.ProductRecord, name string) (domain.SpecValue, bool) {
	switch name {
	case "standard":
		if len(product.Standards) == 0 {
			return domain.SpecValue{}, false
		}
		return domain.TextSpec(strings.Join(product.Standards, " / ")), true
	case "category":
		if value, ok := product.Specs[name]; ok {
			return value, true
		}
		if product.Category != "" {
			return domain.TextSpec(product.Category), true
		}
		return domain.SpecValue{}, false
	default:
		value, ok := product.Specs[name]
		return value, ok
	}
}

// validateProduct reports whether a catalogue entry is usable for scoring.
// Bad entries are excluded with a reason rather than failing the whole run.
func validateProduct(product *domain.ProductRecord) (string, bool) {
	if product.SKU == "" {
		return "missing SKU", false
	}
	if product.UnitPrice < 0 || math.IsNaN(product.UnitPrice) {
		return "negative or malformed unit price", false
	}
	if product.TestPrice < 0 || math.IsNaN(product.TestPrice) {
		return "negative or malformed test price", false
	}
	for name, value := range product.Specs {
		if value.Kind == domain.SpecNumeric && (math.IsNaN(value.Number) || math.IsInf(value.Number, 0)) {
			return fmt.Sprintf("malformed numeric value for %s", name), false
		}
	}
	return "", true
}

// emptyEvidence covers every requirement spec field when no product could be
// scored, so even a degenerate record stays explainable.
func emptyEvidence(requirement *domain.RFPRequirement) map[string]domain.FieldEvidence {
	evidence := make(map[string]domain.FieldEvidence, len(requirement.Specs))
	for name, value := range requirement.Specs {
		evidence[name] = domain.FieldEvidence{
			RFPValue: value.String(),
			Note:     "no scorable products",
		}
	}
	return evidence
}

// displayFields denormalizes the selected product for the document generator.
func displayFields(product *domain.ProductRecord) *domain.MatchedProduct {
	matched := &domain.MatchedProduct{
		Name:      product.Name,
		Category:  product.Category,
		Standard:  strings.Join(product.Standards, " / "),
		UnitPrice: product.UnitPrice,
		TestPrice: product.TestPrice,
	}
	if value, ok := product.Specs["conductor_material"]; ok {
		matched.ConductorMaterial = value.String()
	}
	if value, ok := product.Specs["conductor_size"]; ok {
		matched.ConductorSize = value.String()
	}
	if value, ok := product.Specs["voltage_rating"]; ok {
		matched.VoltageRating = value.String()
	}
	return matched
}

// normalizeText lowercases and collapses whitespace for categorical comparison
func normalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return multipleSpacesRegex.ReplaceAllString(s, " ")
}

// sortedFieldNames returns the requirement's spec field names in a stable order
func sortedFieldNames(specs domain.TechSpecs) []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// round2 rounds a score to two decimals
func round2(score float64) float64 {
	return math.Round(score*100) / 100
}
