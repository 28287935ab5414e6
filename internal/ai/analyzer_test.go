package ai

import (
	"context"
	"strings"
	"testing"
)

type fakeClient struct {
	response string
	err      error
	calls    int

	lastModel  string
	lastSystem string
	lastUser   string
}

func (f *fakeClient) Complete(_ context.Context, model, system, user string) (string, error) {
	f.calls++
	f.lastModel = model
	f.lastSystem = system
	f.lastUser = user
	return f.response, f.err
}

type fakeFetcher struct {
	text    string
	lastURL string
}

func (f *fakeFetcher) Text(_ context.Context, url string) string {
	f.lastURL = url
	return f.text
}

func TestAnalyze_NormalizesResponse(t *testing.T) {
	client := &fakeClient{response: `{
		"companyDescription": "Bakkerij Jansen bakt brood.",
		"aiOpportunities": [
			{"id": 7, "title": "Voorraadvoorspelling", "description": "Minder derving.",
			 "businessCase": {"potentialImpact": "Hoog", "estimatedROI": "100-200%",
			   "implementationCost": "€12.000 - €18.000", "timeToValue": "2 maanden",
			   "benefits": ["minder derving"]}},
			{"title": "", "description": "Tweede kans.", "businessCase": {}}
		]
	}`}
	fetcher := &fakeFetcher{text: "Bakkerij Jansen, vers brood elke dag."}

	got := NewAnalyzer(client, fetcher, "gpt-4o-mini").Analyze(context.Background(), "https://bakkerij-jansen.nl")

	if fetcher.lastURL != "https://bakkerij-jansen.nl" {
		t.Errorf("fetcher url = %q", fetcher.lastURL)
	}
	if client.lastModel != "gpt-4o-mini" {
		t.Errorf("model = %q", client.lastModel)
	}
	if !strings.Contains(client.lastUser, fetcher.text) || !strings.Contains(client.lastUser, "https://bakkerij-jansen.nl") {
		t.Errorf("user prompt missing url or content")
	}

	if got.CompanyDescription != "Bakkerij Jansen bakt brood." {
		t.Errorf("companyDescription = %q", got.CompanyDescription)
	}
	if len(got.Opportunities) != 3 {
		t.Fatalf("opportunities = %d; want exactly 3", len(got.Opportunities))
	}
	for i, opp := range got.Opportunities {
		if opp.ID != i+1 {
			t.Errorf("opportunity[%d].ID = %d; want positional id %d", i, opp.ID, i+1)
		}
	}

	// First entry keeps its own content, id is forced positional.
	if got.Opportunities[0].Title != "Voorraadvoorspelling" || got.Opportunities[0].BusinessCase.EstimatedROI != "100-200%" {
		t.Errorf("first opportunity mangled: %+v", got.Opportunities[0])
	}

	// Second entry had everything missing; defaults apply.
	second := got.Opportunities[1]
	if second.Title != "AI Kans 2" {
		t.Errorf("title default = %q", second.Title)
	}
	bc := second.BusinessCase
	if bc.PotentialImpact != "Gemiddeld" || bc.EstimatedROI != "150-250%" ||
		bc.ImplementationCost != "€10.000 - €20.000" || bc.TimeToValue != "2-3 maanden" {
		t.Errorf("business case defaults not applied: %+v", bc)
	}
	if bc.Benefits == nil || bc.KeyMetrics == nil {
		t.Errorf("list fields must be empty, not nil")
	}

	// Third entry is topped up from the curated set.
	if got.Opportunities[2].Title == "" {
		t.Errorf("topped-up opportunity is empty")
	}
}

func TestAnalyze_DropsExtraOpportunities(t *testing.T) {
	client := &fakeClient{response: `{"companyDescription": "d", "aiOpportunities": [
		{"title": "a"}, {"title": "b"}, {"title": "c"}, {"title": "d"}, {"title": "e"}
	]}`}
	got := NewAnalyzer(client, &fakeFetcher{}, "m").Analyze(context.Background(), "https://example.com")
	if len(got.Opportunities) != 3 {
		t.Fatalf("opportunities = %d; want 3", len(got.Opportunities))
	}
	if got.Opportunities[2].Title != "c" {
		t.Errorf("order not preserved: %+v", got.Opportunities)
	}
}

func TestAnalyze_FallbackOnCompletionError(t *testing.T) {
	client := &fakeClient{err: context.DeadlineExceeded}
	got := NewAnalyzer(client, &fakeFetcher{}, "m").Analyze(context.Background(), "https://www.mooiebloemen.nl")

	if len(got.Opportunities) != 3 {
		t.Fatalf("fallback opportunities = %d; want 3", len(got.Opportunities))
	}
	if !strings.Contains(got.CompanyDescription, "mooiebloemen") {
		t.Errorf("fallback description not seeded with company name: %q", got.CompanyDescription)
	}
	for i, opp := range got.Opportunities {
		if opp.ID != i+1 || opp.Title == "" || len(opp.BusinessCase.Benefits) == 0 {
			t.Errorf("fallback opportunity %d incomplete: %+v", i, opp)
		}
	}
}

func TestAnalyze_FallbackOnMalformedJSON(t *testing.T) {
	client := &fakeClient{response: "sorry, hier is je analyse:"}
	got := NewAnalyzer(client, &fakeFetcher{}, "m").Analyze(context.Background(), "https://example.com")
	if len(got.Opportunities) != 3 {
		t.Fatalf("fallback opportunities = %d; want 3", len(got.Opportunities))
	}
}

func TestAnalyze_EmptyOpportunityListToppedUp(t *testing.T) {
	client := &fakeClient{response: `{"companyDescription": "Alleen een beschrijving."}`}
	got := NewAnalyzer(client, &fakeFetcher{}, "m").Analyze(context.Background(), "https://example.com")
	if got.CompanyDescription != "Alleen een beschrijving." {
		t.Errorf("description lost: %q", got.CompanyDescription)
	}
	if len(got.Opportunities) != 3 {
		t.Fatalf("opportunities = %d; want 3", len(got.Opportunities))
	}
}

func TestFallbackAnalysis_Shape(t *testing.T) {
	got := FallbackAnalysis("https://www.kapsalon-mooi.nl")
	if len(got.Opportunities) != 3 {
		t.Fatalf("opportunities = %d; want 3", len(got.Opportunities))
	}
	var titles []string
	for _, o := range got.Opportunities {
		titles = append(titles, o.Title)
	}
	want := []string{"Chatbot voor Klantenservice", "Predictive Analytics voor Verkoop", "Geautomatiseerde Content Generatie"}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("title[%d] = %q; want %q", i, titles[i], want[i])
		}
	}
	if !strings.Contains(got.CompanyDescription, "kapsalon-mooi") {
		t.Errorf("description = %q; want company name", got.CompanyDescription)
	}
}
