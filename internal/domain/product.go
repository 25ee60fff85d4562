package domain

// ProductRecord is one catalogue entry. The SKU uniquely identifies the
// product within a catalogue snapshot; callers treat the snapshot as
// immutable for the duration of a matching run.
type ProductRecord struct {
	SKU       string    `json:"sku"`
	Name      string    `json:"product_name"`
	Category  string    `json:"category"`
	Specs     TechSpecs `json:"tech_specs"`
	Standards []string  `json:"standards"` // one product may comply with several standards
	UnitPrice float64   `json:"unit_price"`
	TestPrice float64   `json:"test_price"`
}
