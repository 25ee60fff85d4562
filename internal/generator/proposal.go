// Package generator renders match records into human-readable proposal
// documents. It is pure formatting: no decision logic lives here.
package generator

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/rfpflow/backend/internal/domain"
)

const rule = "--------------------------------------------------------------------------------"

var proposalTemplate = template.Must(template.New("proposal").Funcs(template.FuncMap{
	"inr":  formatINR,
	"rule": func() string { return rule },
}).Parse(`================================================================================
PROPOSAL FOR REQUEST FOR PROPOSAL
================================================================================

RFP ID: {{.RFPID}}
Title: {{.Title}}
Organization: {{.Organization}}
Deadline: {{.Deadline}}

{{rule}}
MATCH ANALYSIS
{{rule}}
Match Confidence: {{printf "%.2f" .Confidence}}%
Matched SKU: {{.SKU}}
{{if .Product}}
{{rule}}
PROPOSED SOLUTION
{{rule}}

Product Name: {{.Product.Name}}
Category: {{.Product.Category}}
SKU: {{.SKU}}

Technical Specifications:
- Conductor Material: {{if .Product.ConductorMaterial}}{{.Product.ConductorMaterial}}{{else}}N/A{{end}}
- Conductor Size: {{if .Product.ConductorSize}}{{.Product.ConductorSize}}{{else}}N/A{{end}} sqmm
- Voltage Rating: {{if .Product.VoltageRating}}{{.Product.VoltageRating}}{{else}}N/A{{end}} kV
- Compliance Standard: {{.Product.Standard}}

{{rule}}
PRICING
{{rule}}
Unit Price: {{inr .Product.UnitPrice}} INR
Testing Price: {{inr .Product.TestPrice}} INR
Total Base Price: {{inr .TotalPrice}} INR

(Final pricing will be provided based on quantity requirements)

{{rule}}
COMPLIANCE STATEMENT
{{rule}}
We confirm that our proposed product meets all technical specifications
mentioned in the RFP document, including:
- Conductor specifications and resistance requirements
- Insulation thickness and material standards
- Voltage ratings and test voltage requirements
- Compliance with {{.Product.Standard}} standards
- Successful completion of type and routine tests

We look forward to the opportunity to support your project and deliver
high-quality solutions that meet your requirements.
{{else}}
{{rule}}
NO QUALIFIED PRODUCT
{{rule}}
No catalogue product reached the minimum match confidence for this RFP.
The best available score was {{printf "%.2f" .Confidence}}%. A manual review of the
requirement and catalogue is recommended before submitting a proposal.
{{end}}
================================================================================
`))

// proposalData is the flattened view the template consumes.
type proposalData struct {
	RFPID        string
	Title        string
	Organization string
	Deadline     string
	SKU          string
	Confidence   float64
	Product      *domain.MatchedProduct
	TotalPrice   float64
}

// Render formats one match record together with its originating requirement
// into proposal text. A record with a nil SKU renders a flagged section
// instead of failing, so the caller never has to special-case it.
func Render(requirement *domain.RFPRequirement, record *domain.MatchRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("cannot render proposal without a match record")
	}

	data := proposalData{
		RFPID:        record.RFPID,
		Title:        "N/A",
		Organization: "N/A",
		Deadline:     "N/A",
		SKU:          "N/A",
		Confidence:   record.Confidence,
		Product:      record.Product,
	}

	if requirement != nil {
		if requirement.Title != "" {
			data.Title = requirement.Title
		}
		if requirement.Organization != "" {
			data.Organization = requirement.Organization
		}
		if requirement.Deadline != nil {
			data.Deadline = requirement.Deadline.Format("2006-01-02")
		}
	}

	if record.SKU != nil {
		data.SKU = *record.SKU
	}
	if record.Product != nil {
		data.TotalPrice = record.Product.UnitPrice + record.Product.TestPrice
	}

	var out strings.Builder
	if err := proposalTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render proposal: %w", err)
	}
	return out.String(), nil
}

// formatINR renders an amount with thousands separators and two decimals,
// mirroring the pricing section of the original proposal documents.
func formatINR(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	whole, frac := parts[0], parts[1]

	negative := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var grouped []string
	for len(whole) > 3 {
		grouped = append([]string{whole[len(whole)-3:]}, grouped...)
		whole = whole[:len(whole)-3]
	}
	grouped = append([]string{whole}, grouped...)

	result := strings.Join(grouped, ",") + "." + frac
	if negative {
		result = "-" + result
	}
	return "Rs. " + result
}
