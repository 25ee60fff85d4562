package domain

import "errors"

var (
	// ErrEmptyCatalogue is returned when a match is attempted against a
	// catalogue with no products
	ErrEmptyCatalogue = errors.New("catalogue contains no products")

	// ErrMalformedRequirement is returned when a requirement is missing its identifier
	ErrMalformedRequirement = errors.New("requirement is missing an identifier")

	// ErrListingUnavailable is returned when the RFP listing source cannot be reached
	ErrListingUnavailable = errors.New("RFP listing request failed")

	// ErrNoListings is returned when the listing source returns zero RFPs
	ErrNoListings = errors.New("listing returned no RFPs")

	// ErrCatalogueUnavailable is returned when the product catalogue cannot be loaded
	ErrCatalogueUnavailable = errors.New("product catalogue could not be loaded")

	// ErrNoScrapedData is returned when a pipeline step needs scraped RFPs
	// but no scrape has run yet
	ErrNoScrapedData = errors.New("no scraped RFPs available")

	// ErrNoMatchData is returned when proposals are requested before any
	// matching run has completed
	ErrNoMatchData = errors.New("no match results available")
)
