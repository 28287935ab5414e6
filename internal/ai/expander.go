package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ai-group/businessscan-backend/internal/domain"
)

// Expander turns a basic analysis into the full report document. Like the
// Analyzer it never fails outward; the curated fallback report is served
// when the completion call or parsing breaks.
type Expander struct {
	client Client
	model  string
}

// NewExpander constructs an Expander using model for its completion calls.
func NewExpander(client Client, model string) *Expander {
	return &Expander{client: client, model: model}
}

// Expand asks the completion service to elaborate the basic analysis and
// merges the response positionally over it. Every opportunity from the
// basic analysis appears in the result: where the response is missing an
// entry or a section, synthesized defaults fill the gap.
func (e *Expander) Expand(ctx context.Context, url string, basic domain.Analysis) domain.ReportBody {
	raw, err := e.client.Complete(ctx, e.model, reportSystemPrompt, reportUserPrompt(url, basic))
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("report expansion degraded to fallback")
		return FallbackReport(basic)
	}

	var parsed domain.ReportBody
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("unparseable report response, serving fallback")
		return FallbackReport(basic)
	}
	return mergeReport(basic, parsed)
}

func mergeReport(basic domain.Analysis, full domain.ReportBody) domain.ReportBody {
	out := domain.ReportBody{
		ExecutiveSummary:      orDefault(full.ExecutiveSummary, "Uitgebreide analyse van AI-implementatiemogelijkheden."),
		OverallRecommendation: full.OverallRecommendation,
		NextSteps:             full.NextSteps,
	}
	if out.OverallRecommendation == "" {
		out.OverallRecommendation = fmt.Sprintf("Wij adviseren om te starten met %s.", firstTitle(basic))
	}
	if len(out.NextSteps) == 0 {
		out.NextSteps = defaultNextSteps()
	}

	for i, base := range basic.Opportunities {
		var det domain.DetailedOpportunity
		if i < len(full.DetailedOpportunities) {
			det = full.DetailedOpportunities[i]
		}
		out.DetailedOpportunities = append(out.DetailedOpportunities, mergeOpportunity(i, base, det))
	}
	return out
}

// mergeOpportunity overlays one detailed opportunity from the completion
// response onto its basic counterpart at the same position. The id is
// positional regardless of what either side claims.
func mergeOpportunity(i int, base domain.Opportunity, det domain.DetailedOpportunity) domain.DetailedOpportunity {
	merged := domain.DetailedOpportunity{
		ID:          i + 1,
		Title:       orDefault(det.Title, orDefault(base.Title, fmt.Sprintf("AI Kans %d", i+1))),
		Description: orDefault(det.Description, base.Description),
	}

	merged.BusinessCase = det.BusinessCase
	if emptyBusinessCase(merged.BusinessCase) {
		merged.BusinessCase = base.BusinessCase
	}

	merged.ImplementationPlan = det.ImplementationPlan
	if emptyPlan(merged.ImplementationPlan) {
		merged.ImplementationPlan = synthesizedPlan(base)
	}

	merged.DetailedBusinessCase = det.DetailedBusinessCase
	if emptyBusinessCase(merged.DetailedBusinessCase.BusinessCase) {
		merged.DetailedBusinessCase.BusinessCase = base.BusinessCase
	}
	if merged.DetailedBusinessCase.FinancialProjection.Year1 == (domain.YearProjection{}) {
		merged.DetailedBusinessCase.FinancialProjection = synthesizedProjection(base)
	}
	ra := &merged.DetailedBusinessCase.RiskAnalysis
	if ra.TechnicalRisks == nil {
		ra.TechnicalRisks = []string{}
	}
	if ra.BusinessRisks == nil {
		ra.BusinessRisks = []string{}
	}
	if ra.Mitigations == nil {
		ra.Mitigations = []string{}
	}

	merged.TechnicalRequirements = det.TechnicalRequirements
	if merged.TechnicalRequirements == nil {
		merged.TechnicalRequirements = []string{}
	}
	merged.SuccessMetrics = det.SuccessMetrics
	if merged.SuccessMetrics == nil {
		merged.SuccessMetrics = []string{}
	}

	merged.Approach = det.Approach
	if merged.Approach == (domain.Approach{}) {
		merged.Approach = defaultApproach()
	}
	return merged
}

func emptyBusinessCase(bc domain.BusinessCase) bool {
	return bc.PotentialImpact == "" && bc.EstimatedROI == "" &&
		bc.ImplementationCost == "" && bc.TimeToValue == "" && len(bc.Benefits) == 0
}

func emptyPlan(p domain.ImplementationPlan) bool {
	return p.Phase1.Title == "" && p.Phase2.Title == "" && p.Phase3.Title == ""
}
