package domain

// FieldEvidence records what was compared for one spec field of the winning
// candidate. A note explains fields that could not be scored (unknown on the
// product side, or an uncomparable value).
type FieldEvidence struct {
	RFPValue     string `json:"rfp_value"`
	ProductValue string `json:"product_value"`
	Matched      bool   `json:"matched"`
	Note         string `json:"note,omitempty"`
}

// MatchedProduct carries the denormalized display fields of the selected
// product for the document generator.
type MatchedProduct struct {
	Name              string  `json:"product_name"`
	Category          string  `json:"category"`
	ConductorMaterial string  `json:"conductor_material,omitempty"`
	ConductorSize     string  `json:"conductor_size_sqmm,omitempty"`
	VoltageRating     string  `json:"voltage_rating,omitempty"`
	Standard          string  `json:"standard_iec"`
	UnitPrice         float64 `json:"unit_price"`
	TestPrice         float64 `json:"test_price"`
}

// ExcludedProduct records a catalogue entry that was dropped before scoring,
// e.g. for a negative price. Exclusions are reported, never silently eaten.
type ExcludedProduct struct {
	SKU    string `json:"sku"`
	Reason string `json:"reason"`
}

// MatchRecord is the matching engine's output for one requirement. A nil
// SKU means no candidate cleared the confidence threshold; Confidence then
// still holds the best score observed so callers can tell "no catalogue"
// from "best effort below threshold".
type MatchRecord struct {
	RFPID      string                   `json:"rfp_id"`
	SKU        *string                  `json:"matched_sku"`
	Confidence float64                  `json:"match_percent"`
	Evidence   map[string]FieldEvidence `json:"evidence"`
	Product    *MatchedProduct          `json:"matched_product,omitempty"`
	Excluded   []ExcludedProduct        `json:"excluded_products,omitempty"`
}

// BatchItem is one position of a batch result: either a match record or the
// error that requirement produced. Positions correspond 1:1 with the input.
type BatchItem struct {
	Record *MatchRecord
	Err    error
}
