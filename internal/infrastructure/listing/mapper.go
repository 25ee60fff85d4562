package listing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rfpflow/backend/internal/domain"
)

// deadlineLayout is the calendar date format used by the listing source
const deadlineLayout = "2006-01-02"

// listingResponse is the wire shape served by the listing source
type listingResponse struct {
	RFPs  []listingRFP `json:"rfps"`
	Count int          `json:"count"`
}

// listingRFP is one raw listing record before normalization
type listingRFP struct {
	ID           string                      `json:"rfp_id"`
	Title        string                      `json:"title"`
	Organization string                      `json:"organization"`
	Deadline     string                      `json:"deadline"`
	Category     string                      `json:"category"`
	TechSpecs    map[string]domain.SpecValue `json:"tech_specs"`
}

// mapToRequirement converts a raw listing record to the domain model.
// Spec values are coerced to the kind the schema registry declares; values
// that cannot be coerced are dropped as unknown rather than kept as noise.
func mapToRequirement(raw listingRFP) (domain.RFPRequirement, error) {
	if raw.ID == "" {
		return domain.RFPRequirement{}, domain.ErrMalformedRequirement
	}

	requirement := domain.RFPRequirement{
		ID:           raw.ID,
		Title:        raw.Title,
		Organization: raw.Organization,
		CategoryHint: raw.Category,
		Specs:        make(domain.TechSpecs, len(raw.TechSpecs)),
	}

	if raw.Deadline != "" {
		deadline, err := time.Parse(deadlineLayout, raw.Deadline)
		if err != nil {
			return domain.RFPRequirement{}, fmt.Errorf("invalid deadline %q: %w", raw.Deadline, err)
		}
		requirement.Deadline = &deadline
	}

	for name, value := range raw.TechSpecs {
		coerced, ok := coerceSpec(name, value)
		if !ok {
			continue
		}
		requirement.Specs[name] = coerced
	}

	return requirement, nil
}

// coerceSpec aligns a raw spec value with the registered kind for its field.
// Numeric fields accept numbers and numeric strings; categorical fields
// accept non-empty text.
func coerceSpec(name string, value domain.SpecValue) (domain.SpecValue, bool) {
	kind, known := domain.SpecFields[name]
	if !known {
		return domain.SpecValue{}, false
	}

	switch kind {
	case domain.SpecNumeric:
		if value.Kind == domain.SpecNumeric {
			return value, true
		}
		number, err := strconv.ParseFloat(strings.TrimSpace(value.Text), 64)
		if err != nil {
			return domain.SpecValue{}, false
		}
		return domain.NumberSpec(number), true
	default:
		if value.Kind == domain.SpecNumeric {
			return domain.TextSpec(value.String()), true
		}
		if strings.TrimSpace(value.Text) == "" {
			return domain.SpecValue{}, false
		}
		return value, true
	}
}
