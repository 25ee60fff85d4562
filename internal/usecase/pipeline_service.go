package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/rfpflow/backend/internal/domain"
	"github.com/rfpflow/backend/internal/generator"
)

// Proposal is one generated proposal document with the listing context the
// document was built from.
type Proposal struct {
	RFPID        string  `json:"rfp_id"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Deadline     string  `json:"deadline,omitempty"`
	MatchedSKU   *string `json:"matched_sku"`
	MatchPercent float64 `json:"match_percent"`
	ProductName  string  `json:"matched_product,omitempty"`
	UnitPrice    float64 `json:"unit_price,omitempty"`
	Text         string  `json:"proposal"`
}

// PipelineSummary aggregates one full pipeline run
type PipelineSummary struct {
	TotalRFPs          int     `json:"total_rfps"`
	MatchedRFPs        int     `json:"matched_rfps"`
	ProposalsGenerated int     `json:"proposals_generated"`
	AvgMatchScore      float64 `json:"avg_match_score"`
}

// PipelineResult is the output of a full scrape -> match -> generate run
type PipelineResult struct {
	Summary   PipelineSummary         `json:"summary"`
	RFPs      []domain.RFPRequirement `json:"scraped_rfps"`
	Items     []domain.BatchItem      `json:"-"`
	Proposals []Proposal              `json:"proposals"`
}

// PipelineService orchestrates the full RFP automation flow. Every stage is
// a pure function boundary: the listing source and catalogue store supply
// snapshots, the matcher decides, the generator formats.
type PipelineService struct {
	listing   domain.ListingSource
	catalogue domain.CatalogueStore
	store     domain.RunStore
	matcher   *MatcherService
}

// NewPipelineService creates the pipeline with its collaborators
func NewPipelineService(
	listing domain.ListingSource,
	catalogue domain.CatalogueStore,
	store domain.RunStore,
	matcher *MatcherService,
) *PipelineService {
	return &PipelineService{
		listing:   listing,
		catalogue: catalogue,
		store:     store,
		matcher:   matcher,
	}
}

// Run executes scrape -> match -> generate in one call
func (s *PipelineService) Run(ctx context.Context) (*PipelineResult, error) {
	rfps, err := s.Scrape(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.matchRequirements(ctx, rfps)
	if err != nil {
		return nil, err
	}

	proposals, err := s.buildProposals(rfps, items)
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{
		Summary:   summarize(rfps, items, proposals),
		RFPs:      rfps,
		Items:     items,
		Proposals: proposals,
	}

	log.Printf("[PIPELINE] Run complete: %d RFPs, %d matched, %d proposals",
		result.Summary.TotalRFPs, result.Summary.MatchedRFPs, result.Summary.ProposalsGenerated)
	return result, nil
}

// Scrape fetches the current RFP listings and stores them for later steps
func (s *PipelineService) Scrape(ctx context.Context) ([]domain.RFPRequirement, error) {
	rfps, err := s.listing.FetchRFPs(ctx)
	if err != nil {
		return nil, err
	}
	if len(rfps) == 0 {
		return nil, domain.ErrNoListings
	}

	s.store.SaveRFPs(rfps)
	log.Printf("[PIPELINE] Scraped %d RFPs", len(rfps))
	return rfps, nil
}

// MatchScraped matches the most recently scraped RFPs against the catalogue
func (s *PipelineService) MatchScraped(ctx context.Context) ([]domain.BatchItem, error) {
	rfps, ok := s.store.RFPs()
	if !ok {
		return nil, domain.ErrNoScrapedData
	}
	return s.matchRequirements(ctx, rfps)
}

// MatchRequirements matches caller-supplied requirements against the
// catalogue, for clients that bring their own listings.
func (s *PipelineService) MatchRequirements(
	ctx context.Context,
	rfps []domain.RFPRequirement,
) ([]domain.BatchItem, error) {
	return s.matchRequirements(ctx, rfps)
}

// Proposals renders proposal documents from the latest matching run
func (s *PipelineService) Proposals(ctx context.Context) ([]Proposal, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	items, ok := s.store.Results()
	if !ok {
		return nil, domain.ErrNoMatchData
	}
	rfps, _ := s.store.RFPs()

	return s.buildProposals(rfps, items)
}

// matchRequirements loads a catalogue snapshot, runs the batch match, and
// stores the result
func (s *PipelineService) matchRequirements(
	ctx context.Context,
	rfps []domain.RFPRequirement,
) ([]domain.BatchItem, error) {
	products, err := s.catalogue.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := s.matcher.MatchBatch(ctx, rfps, products)
	s.store.SaveResults(items)

	log.Printf("[PIPELINE] Matched %d RFPs against %d products", len(items), len(products))
	return items, nil
}

// buildProposals renders one proposal per successful match record
func (s *PipelineService) buildProposals(
	rfps []domain.RFPRequirement,
	items []domain.BatchItem,
) ([]Proposal, error) {
	byID := make(map[string]*domain.RFPRequirement, len(rfps))
	for i := range rfps {
		byID[rfps[i].ID] = &rfps[i]
	}

	proposals := make([]Proposal, 0, len(items))
	for _, item := range items {
		if item.Err != nil || item.Record == nil {
			continue
		}

		requirement := byID[item.Record.RFPID]
		text, err := generator.Render(requirement, item.Record)
		if err != nil {
			return nil, fmt.Errorf("proposal generation failed for %s: %w", item.Record.RFPID, err)
		}

		proposal := Proposal{
			RFPID:        item.Record.RFPID,
			MatchedSKU:   item.Record.SKU,
			MatchPercent: item.Record.Confidence,
			Text:         text,
		}
		if requirement != nil {
			proposal.Title = requirement.Title
			proposal.Organization = requirement.Organization
			if requirement.Deadline != nil {
				proposal.Deadline = requirement.Deadline.Format("2006-01-02")
			}
		}
		if item.Record.Product != nil {
			proposal.ProductName = item.Record.Product.Name
			proposal.UnitPrice = item.Record.Product.UnitPrice
		}
		proposals = append(proposals, proposal)
	}

	return proposals, nil
}

// summarize computes run totals, averaging confidence over records that
// produced a result
func summarize(rfps []domain.RFPRequirement, items []domain.BatchItem, proposals []Proposal) PipelineSummary {
	summary := PipelineSummary{
		TotalRFPs:          len(rfps),
		ProposalsGenerated: len(proposals),
	}

	var scoreSum float64
	var scored int
	for _, item := range items {
		if item.Err != nil || item.Record == nil {
			continue
		}
		scoreSum += item.Record.Confidence
		scored++
		if item.Record.SKU != nil {
			summary.MatchedRFPs++
		}
	}
	if scored > 0 {
		summary.AvgMatchScore = scoreSum / float64(scored)
	}
	return summary
}
