package ai

import (
	"fmt"

	"github.com/ai-group/businessscan-backend/internal/domain"
	"github.com/ai-group/businessscan-backend/internal/urlutil"
)

// Curated Dutch content served when the completion service is unavailable
// or returns something unusable. It is generic on purpose but seeded with
// the submitted domain so the result still reads as addressed to the
// visitor's company.

// FallbackAnalysis returns the curated basic analysis for url. It upholds
// the same contract as a successful analysis: exactly three opportunities
// with 1-based ids and fully populated business cases.
func FallbackAnalysis(url string) domain.Analysis {
	name := urlutil.CompanyName(url)
	if name == "" {
		name = urlutil.Domain(url)
	}
	return domain.Analysis{
		CompanyDescription: fmt.Sprintf("Bedrijf %s is een innovatief bedrijf dat actief is in de digitale markt. Op basis van de website analyse kunnen we zien dat het bedrijf zich richt op het leveren van hoogwaardige diensten aan zowel B2B als B2C klanten.", name),
		Opportunities:      fallbackOpportunities(),
	}
}

func fallbackOpportunities() []domain.Opportunity {
	return []domain.Opportunity{
		{
			ID:          1,
			Title:       "Chatbot voor Klantenservice",
			Description: "Implementeer een AI-gestuurde chatbot die 24/7 klantvragen kan beantwoorden, reserveringen kan verwerken en algemene informatie kan verstrekken.",
			BusinessCase: domain.BusinessCase{
				PotentialImpact:    "Hoog",
				EstimatedROI:       "200-300%",
				ImplementationCost: "€15.000 - €25.000",
				TimeToValue:        "2-3 maanden",
				Benefits: []string{
					"24/7 beschikbaarheid voor klanten",
					"Vermindering van 40-60% van standaard klantvragen",
					"Verbeterde klanttevredenheid door snellere respons",
					"Kostenbesparing op klantenservice personeel",
				},
				Rationale: "Een chatbot vangt het grootste deel van de standaard klantvragen af, waardoor het team zich kan richten op complexe vragen. De besparing op klantenservice-uren en de snellere respons maken de investering binnen enkele maanden terug te verdienen.",
				KeyMetrics: []string{
					"40-60% reductie in handmatige klantvragen",
					"€50.000-€75.000 jaarlijkse kostenbesparing",
					"20-30 uur per week tijdsbesparing voor klantenservice",
				},
			},
		},
		{
			ID:          2,
			Title:       "Predictive Analytics voor Verkoop",
			Description: "Gebruik AI om verkooppatronen te analyseren en voorspellingen te doen over toekomstige vraag.",
			BusinessCase: domain.BusinessCase{
				PotentialImpact:    "Zeer Hoog",
				EstimatedROI:       "250-400%",
				ImplementationCost: "€20.000 - €35.000",
				TimeToValue:        "3-4 maanden",
				Benefits: []string{
					"Optimalisatie van voorraadniveaus (20-30% reductie)",
					"Verhoogde verkoop door betere productaanbevelingen",
					"Verbeterde cashflow door slimmer voorraadbeheer",
					"Data-gedreven besluitvorming",
				},
				Rationale: "Betere vraagvoorspellingen verlagen de voorraadkosten en voorkomen misgelopen verkoop. De combinatie van lagere werkkapitaalbehoefte en hogere omzet levert een aantoonbaar hoog rendement op de investering.",
				KeyMetrics: []string{
					"20-30% reductie in voorraadniveaus",
					"10-15% omzetgroei door betere aanbevelingen",
					"€70.000-€190.000 totale jaarlijkse waarde",
				},
			},
		},
		{
			ID:          3,
			Title:       "Geautomatiseerde Content Generatie",
			Description: "AI kan helpen bij het genereren van marketing content, productbeschrijvingen en social media posts.",
			BusinessCase: domain.BusinessCase{
				PotentialImpact:    "Gemiddeld tot Hoog",
				EstimatedROI:       "150-250%",
				ImplementationCost: "€10.000 - €18.000",
				TimeToValue:        "1-2 maanden",
				Benefits: []string{
					"Tijdsbesparing van 15-20 uur per week",
					"Consistente tone-of-voice in alle content",
					"Snellere time-to-market voor nieuwe producten",
					"Meer tijd voor strategische marketing activiteiten",
				},
				Rationale: "Contentproductie is een terugkerende tijdrovende taak. Door eerste versies automatisch te genereren bespaart het marketingteam wekelijks uren, terwijl de doorlooptijd van campagnes en productlanceringen aanzienlijk korter wordt.",
				KeyMetrics: []string{
					"15-20 uur per week tijdsbesparing",
					"€30.000-€60.000 jaarlijkse waarde door tijdsbesparing",
					"50% snellere time-to-market voor nieuwe producten",
				},
			},
		},
	}
}

// FallbackReport returns the curated full report built from a basic
// analysis. Every opportunity gets a complete implementation plan,
// financial projection, risk analysis, and delivery approach.
func FallbackReport(basic domain.Analysis) domain.ReportBody {
	detailed := make([]domain.DetailedOpportunity, 0, len(basic.Opportunities))
	for _, opp := range basic.Opportunities {
		detailed = append(detailed, domain.DetailedOpportunity{
			ID:           opp.ID,
			Title:        opp.Title,
			Description:  opp.Description,
			BusinessCase: opp.BusinessCase,
			ImplementationPlan: domain.ImplementationPlan{
				Phase1: domain.Phase{
					Title:    "Voorbereiding en Planning",
					Duration: "2-3 weken",
					Activities: []string{
						"Vereistenanalyse en stakeholder interviews",
						"Technische architectuur ontwerp",
						"Projectplanning en resource allocatie",
					},
				},
				Phase2: domain.Phase{
					Title:    "Ontwikkeling en Implementatie",
					Duration: orDefault(opp.BusinessCase.TimeToValue, "2-3 maanden"),
					Activities: []string{
						"AI model training en fine-tuning",
						"Integratie met bestaande systemen",
						"Testing en kwaliteitsborging",
					},
				},
				Phase3: domain.Phase{
					Title:    "Launch en Optimalisatie",
					Duration: "4-6 weken",
					Activities: []string{
						"Pilot lancering met beperkte gebruikersgroep",
						"Monitoring en feedback verzameling",
					},
				},
			},
			DetailedBusinessCase: domain.DetailedBusinessCase{
				BusinessCase:        opp.BusinessCase,
				FinancialProjection: synthesizedProjection(opp),
				RiskAnalysis: domain.RiskAnalysis{
					TechnicalRisks: []string{
						"Integratie uitdagingen met bestaande systemen",
						"Data kwaliteit en beschikbaarheid",
						"AI model performance in productie",
					},
					BusinessRisks: []string{
						"Gebruikersacceptatie en change management",
						"ROI realisatie kan variëren",
						"Concurrentie en marktveranderingen",
					},
					Mitigations: []string{
						"Uitgebreide testing en pilot programma",
						"Gefaseerde implementatie met duidelijke milestones",
						"Continue monitoring en aanpassingen",
					},
				},
			},
			TechnicalRequirements: []string{
				"Cloud infrastructuur (AWS/Azure/GCP)",
				"API integraties met bestaande systemen",
				"Data pipeline voor real-time verwerking",
				"Security en compliance maatregelen",
			},
			SuccessMetrics: []string{
				"Gebruikersadoptie percentage",
				"Tijdsbesparing in uren per week",
				"Kostenbesparing per kwartaal",
				"Klanttevredenheid scores",
				"ROI realisatie vs. projectie",
			},
			Approach: defaultApproach(),
		})
	}

	return domain.ReportBody{
		ExecutiveSummary:      "AI-Group heeft een uitgebreide analyse uitgevoerd van de AI-implementatiemogelijkheden voor uw bedrijf. Op basis van de website analyse en marktonderzoek hebben we drie strategische AI-kansen geïdentificeerd die significante waarde kunnen toevoegen aan uw bedrijfsvoering. AI-Group staat klaar om deze oplossingen voor u te implementeren en te zorgen voor een succesvolle realisatie van de geïdentificeerde kansen. Wij combineren technische expertise met diepgaande kennis van bedrijfsprocessen om oplossingen te leveren die direct waarde toevoegen aan uw organisatie.",
		DetailedOpportunities: detailed,
		OverallRecommendation: fmt.Sprintf("AI-Group adviseert om te starten met de implementatie van %s, aangezien deze de hoogste impact heeft en relatief snel te implementeren is. Na succesvolle implementatie kunnen de andere kansen gefaseerd worden toegevoegd. AI-Group staat klaar om u te begeleiden door het hele implementatieproces en zorgt voor een succesvolle realisatie van deze kansen. Wij nodigen u uit voor een gesprek om te bespreken hoe we samen kunnen werken aan het realiseren van deze AI-oplossingen.", firstTitle(basic)),
		NextSteps:             defaultNextSteps(),
	}
}

// synthesizedProjection is the conservative year-1 projection used when the
// completion response omits financials for an opportunity.
func synthesizedProjection(opp domain.Opportunity) domain.FinancialProjection {
	return domain.FinancialProjection{
		Year1: domain.YearProjection{
			Investment:              orDefault(opp.BusinessCase.ImplementationCost, "€10.000 - €20.000"),
			ExpectedSavings:         "€15.000 - €30.000",
			ExpectedRevenueIncrease: "€5.000 - €15.000",
			TotalValue:              "€20.000 - €45.000",
			ROI:                     "50-120%",
			BreakEvenPoint:          "6-12 maanden",
			Summary:                 "Kostenbesparingen worden gerealiseerd door automatisering van repetitieve taken en optimalisatie van processen. Omzetgroei wordt gerealiseerd door verbeterde klanttevredenheid en nieuwe verkoopmogelijkheden.",
		},
	}
}

// synthesizedPlan is the bare implementation plan used when the completion
// response omits one for an opportunity.
func synthesizedPlan(opp domain.Opportunity) domain.ImplementationPlan {
	return domain.ImplementationPlan{
		Phase1: domain.Phase{Title: "Voorbereiding", Duration: "2-3 weken", Activities: []string{}},
		Phase2: domain.Phase{Title: "Implementatie", Duration: orDefault(opp.BusinessCase.TimeToValue, "2-3 maanden"), Activities: []string{}},
		Phase3: domain.Phase{Title: "Lancering", Duration: "4-6 weken", Activities: []string{}},
	}
}

func defaultApproach() domain.Approach {
	return domain.Approach{
		WhatWeDo:    "AI-Group implementeert deze AI-oplossing door middel van consultancy, ontwikkeling en implementatie. We zorgen voor een op maat gemaakte oplossing die perfect aansluit bij uw bedrijfsprocessen.",
		HowWeDoIt:   "AI-Group gebruikt een bewezen methodologie met gefaseerde implementatie. We werken nauw samen met uw team, zorgen voor training en ondersteuning, en garanderen een succesvolle implementatie.",
		WhyChooseUs: "AI-Group heeft uitgebreide ervaring met AI-implementaties en combineert technische expertise met diepgaande kennis van bedrijfsprocessen. We zorgen voor een oplossing die direct waarde toevoegt aan uw bedrijf.",
	}
}

func defaultNextSteps() []string {
	return []string{
		"Neem contact op met AI-Group voor een vrijblijvend gesprek",
		"Plan een strategie sessie met AI-Group om prioriteiten te bepalen",
		"AI-Group bereidt een gedetailleerd projectplan voor",
		"Identificeer interne stakeholders voor samenwerking met AI-Group",
		"Start de samenwerking met AI-Group voor implementatie",
	}
}

func firstTitle(basic domain.Analysis) string {
	if len(basic.Opportunities) > 0 && basic.Opportunities[0].Title != "" {
		return basic.Opportunities[0].Title
	}
	return "de eerste AI-kans"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
