package domain

import "context"

// ListingSource supplies the normalized RFP listings for a run. The engine
// is agnostic to how they were obtained (web listing, file, API).
type ListingSource interface {
	FetchRFPs(ctx context.Context) ([]RFPRequirement, error)
}

// CatalogueStore supplies the full product catalogue as an immutable
// snapshot for the duration of one matching run.
type CatalogueStore interface {
	Load(ctx context.Context) ([]ProductRecord, error)
}

// RunStore keeps the latest pipeline artifacts so the individual pipeline
// steps can operate on the output of a previous one.
type RunStore interface {
	SaveRFPs(rfps []RFPRequirement)
	RFPs() ([]RFPRequirement, bool)
	SaveResults(items []BatchItem)
	Results() ([]BatchItem, bool)
}
