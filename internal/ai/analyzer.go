package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ai-group/businessscan-backend/internal/domain"
	"github.com/ai-group/businessscan-backend/internal/urlutil"
)

// TextFetcher supplies the page text an analysis is based on.
type TextFetcher interface {
	Text(ctx context.Context, url string) string
}

// Analyzer produces the basic analysis: a company description plus exactly
// three AI opportunities. Analyze never fails; whatever goes wrong with the
// fetch, the completion call, or parsing, the caller gets a usable analysis.
type Analyzer struct {
	client  Client
	fetcher TextFetcher
	model   string
}

// NewAnalyzer constructs an Analyzer using model for its completion calls.
func NewAnalyzer(client Client, fetcher TextFetcher, model string) *Analyzer {
	return &Analyzer{client: client, fetcher: fetcher, model: model}
}

// Analyze fetches the website text, asks the completion service for an
// analysis, and normalizes the response. On any failure it returns the
// curated fallback analysis seeded with the submitted domain.
func (a *Analyzer) Analyze(ctx context.Context, url string) domain.Analysis {
	content := a.fetcher.Text(ctx, url)

	raw, err := a.client.Complete(ctx, a.model, scanSystemPrompt, scanUserPrompt(url, content))
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("basic analysis degraded to fallback")
		return FallbackAnalysis(url)
	}

	var parsed domain.Analysis
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("unparseable analysis response, serving fallback")
		return FallbackAnalysis(url)
	}
	return normalizeAnalysis(url, parsed)
}

// normalizeAnalysis enforces the analysis contract on a parsed completion
// response: exactly three opportunities, positional 1-based ids, and no
// empty business-case fields. Extra opportunities are dropped; a short
// response is topped up from the curated set.
func normalizeAnalysis(url string, in domain.Analysis) domain.Analysis {
	out := domain.Analysis{CompanyDescription: in.CompanyDescription}
	if out.CompanyDescription == "" {
		out.CompanyDescription = fmt.Sprintf("Bedrijf %s is een innovatief bedrijf dat actief is in de digitale markt.", urlutil.Domain(url))
	}

	opps := in.Opportunities
	if len(opps) > 3 {
		opps = opps[:3]
	}
	for i, opp := range opps {
		opp.ID = i + 1
		if opp.Title == "" {
			opp.Title = fmt.Sprintf("AI Kans %d", i+1)
		}
		opp.BusinessCase = withBusinessCaseDefaults(opp.BusinessCase)
		out.Opportunities = append(out.Opportunities, opp)
	}

	if len(out.Opportunities) < 3 {
		for _, extra := range fallbackOpportunities()[len(out.Opportunities):] {
			extra.ID = len(out.Opportunities) + 1
			out.Opportunities = append(out.Opportunities, extra)
		}
	}
	return out
}

func withBusinessCaseDefaults(bc domain.BusinessCase) domain.BusinessCase {
	bc.PotentialImpact = orDefault(bc.PotentialImpact, "Gemiddeld")
	bc.EstimatedROI = orDefault(bc.EstimatedROI, "150-250%")
	bc.ImplementationCost = orDefault(bc.ImplementationCost, "€10.000 - €20.000")
	bc.TimeToValue = orDefault(bc.TimeToValue, "2-3 maanden")
	if bc.Benefits == nil {
		bc.Benefits = []string{}
	}
	bc.Rationale = orDefault(bc.Rationale, "Deze AI-kans biedt concrete voordelen voor het bedrijf door automatisering en optimalisatie van processen.")
	if bc.KeyMetrics == nil {
		bc.KeyMetrics = []string{}
	}
	return bc
}
