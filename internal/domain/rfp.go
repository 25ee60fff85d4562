package domain

import "time"

// RFPRequirement is one listed request-for-proposal. It is created by the
// listing source and read-only from then on; the matching engine never
// mutates it.
type RFPRequirement struct {
	ID           string     `json:"rfp_id"`
	Title        string     `json:"title"`
	Organization string     `json:"organization"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	CategoryHint string     `json:"category_hint,omitempty"`
	Specs        TechSpecs  `json:"tech_specs"`
}
