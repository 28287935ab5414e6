package ai

import (
	"encoding/json"
	"fmt"

	"github.com/ai-group/businessscan-backend/internal/domain"
)

// The prompts are product copy, written in Dutch like the rest of the
// visitor-facing content. Both calls run in JSON mode and the expected
// document shape is spelled out inline so the model returns fields that
// unmarshal directly into the domain types.

const scanSystemPrompt = `Je bent een expert in bedrijfsanalyse en AI-implementaties. Je geeft altijd geldige JSON responses terug zonder extra tekst. Je bent zeer kritisch en geeft alleen AI-kansen terug die DIRECT en SPECIFIEK relevant zijn voor het geanalyseerde bedrijf. Vermijd generieke of algemene AI-kansen die niet aansluiten bij de werkelijke bedrijfsactiviteiten.`

const scanResponseFormat = `Geef een JSON response terug met het volgende formaat:
{
  "companyDescription": "Een uitgebreide beschrijving van het bedrijf op basis van de website content, inclusief diensten, doelgroep en marktpositie (minimaal 150 woorden)",
  "aiOpportunities": [
    {
      "id": 1,
      "title": "Titel van de AI-kans",
      "description": "Uitgebreide beschrijving waarom deze AI-kans relevant is voor dit specifieke bedrijf (minimaal 100 woorden)",
      "businessCase": {
        "potentialImpact": "Laag/Gemiddeld/Hoog/Zeer Hoog",
        "estimatedROI": "bijv. 200-300%",
        "implementationCost": "bijv. €15.000 - €25.000",
        "timeToValue": "bijv. 2-3 maanden",
        "benefits": [
          "Concrete benefit 1",
          "Concrete benefit 2",
          "Concrete benefit 3",
          "Concrete benefit 4"
        ],
        "rationale": "Een duidelijke onderbouwing (minimaal 80 woorden) die uitlegt waarom deze ROI realistisch is, gebaseerd op concrete voorbeelden uit de bedrijfsactiviteiten. Leg uit hoe de besparingen worden gerealiseerd en waarom de investering de moeite waard is.",
        "keyMetrics": [
          "Concrete meetbare metric 1 (bijv. '40% reductie in handmatige taken')",
          "Concrete meetbare metric 2 (bijv. '€25.000 besparing per jaar')",
          "Concrete meetbare metric 3 (bijv. '15 uur per week tijdsbesparing')"
        ]
      }
    }
  ]
}

Belangrijk:
- Geef exact 3 AI-kansen terug die SPECIFIEK en DIRECT relevant zijn voor dit bedrijf
- Baseer je analyse STRENG op de daadwerkelijke website content - alleen kansen die duidelijk aansluiten bij de bedrijfsactiviteiten
- Vermijd generieke AI-kansen zoals "predictive maintenance", "supply chain optimization" of "fraud detection" tenzij deze expliciet relevant zijn voor dit specifieke bedrijf
- Elke AI-kans moet een duidelijke, directe link hebben met de diensten, producten of processen die op de website worden genoemd
- Maak de beschrijvingen concreet en specifiek voor dit bedrijf - leg duidelijk uit WAAROM deze kans relevant is voor dit specifieke bedrijf
- Zorg dat de business cases realistisch zijn en gebaseerd op de werkelijke bedrijfsactiviteiten
- Voor elke businesscase: geef een duidelijke onderbouwing (rationale) die uitlegt waarom de ROI schatting realistisch is
- Voeg keyMetrics toe met 3 concrete, meetbare metrics die de waarde van de AI-kans ondersteunen
- Geef alleen geldige JSON terug, geen extra tekst ervoor of erna`

func scanUserPrompt(url, content string) string {
	return fmt.Sprintf(`Je bent een expert in bedrijfsanalyse en AI-implementaties. Analyseer de volgende website content en geef een gedetailleerde analyse terug in JSON formaat.

Website URL: %s
Website Content (eerste 8000 karakters):
%s

`, url, content) + scanResponseFormat
}

const reportSystemPrompt = `Je bent een expert in bedrijfsanalyse en AI-implementaties. Je schrijft voorstellen namens AI-Group, een gespecialiseerd AI-implementatiebedrijf. Je geeft altijd geldige JSON responses terug zonder extra tekst. Je bent zeer kritisch en zorgt ervoor dat alle details specifiek en relevant zijn voor het geanalyseerde bedrijf. BELANGRIJK: Geef ALLE 3 AI-kansen terug met complete uitwerking. Wees BEKNOPT (80-120 woorden per beschrijving) en REALISTISCH (ROI 50-120%, niet te optimistisch). Financiële projecties moeten conservatief zijn en alleen jaar 1 bevatten. Positioneer AI-Group duidelijk als de implementatiepartner die deze oplossingen kan realiseren.`

const reportResponseFormat = `Geef een JSON response terug met het volgende formaat:
{
  "executiveSummary": "Een beknopte bestuurlijke samenvatting (100-150 woorden) geschreven als VOORSTEL van AI-Group. Positioneer AI-Group als de implementatiepartner die deze oplossingen kan realiseren.",
  "detailedOpportunities": [
    {
      "id": 1,
      "title": "Titel van de AI-kans (specifiek voor dit bedrijf)",
      "description": "Beknopte maar BEDRIJFSSPECIFIEKE beschrijving (80-120 woorden)",
      "businessCase": {
        "potentialImpact": "...",
        "estimatedROI": "...",
        "implementationCost": "...",
        "timeToValue": "...",
        "benefits": ["..."]
      },
      "implementationPlan": {
        "phase1": { "title": "Fase 1 titel", "duration": "bijv. 2-3 weken", "activities": ["activiteit 1", "activiteit 2", "activiteit 3"] },
        "phase2": { "title": "Fase 2 titel", "duration": "gebruik timeToValue uit businessCase", "activities": ["activiteit 1", "activiteit 2", "activiteit 3"] },
        "phase3": { "title": "Fase 3 titel", "duration": "bijv. 4-6 weken", "activities": ["activiteit 1", "activiteit 2"] }
      },
      "detailedBusinessCase": {
        "potentialImpact": "...",
        "estimatedROI": "...",
        "implementationCost": "...",
        "timeToValue": "...",
        "benefits": ["..."],
        "financialProjection": {
          "year1": {
            "investment": "gebruik implementationCost",
            "expectedSavings": "REALISTISCHE schatting (bijv. '€15.000 - €30.000') - wees conservatief",
            "expectedRevenueIncrease": "REALISTISCHE schatting van omzetgroei (bijv. '€5.000 - €15.000')",
            "totalValue": "totale waarde (expectedSavings + expectedRevenueIncrease)",
            "roi": "REALISTISCHE ROI (bijv. '50-120%') - conservatief, niet te optimistisch",
            "breakEvenPoint": "bijv. '6-12 maanden' - realistisch",
            "summary": "Korte uitleg (40-60 woorden) van hoe besparingen en omzetgroei worden gerealiseerd"
          }
        },
        "riskAnalysis": {
          "technicalRisks": ["risico 1", "risico 2"],
          "businessRisks": ["risico 1", "risico 2"],
          "mitigations": ["mitigatie 1", "mitigatie 2"]
        }
      },
      "technicalRequirements": ["vereiste 1", "vereiste 2", "vereiste 3"],
      "successMetrics": ["metric 1", "metric 2", "metric 3"],
      "approach": {
        "whatWeDo": "Beknopte beschrijving (60-80 woorden) van WAT AI-Group doet voor deze AI-kans.",
        "howWeDoIt": "Beknopte beschrijving (60-80 woorden) van HOE AI-Group deze oplossing aanpakt.",
        "whyChooseUs": "Beknopte beschrijving (50-70 woorden) van WAAROM dit bedrijf voor AI-Group moet kiezen."
      }
    }
  ],
  "overallRecommendation": "Een beknopte aanbeveling (100-150 woorden) geschreven als VOORSTEL van AI-Group. Adviseer welke AI-kans als eerste geïmplementeerd moet worden en waarom.",
  "nextSteps": ["stap 1", "stap 2", "stap 3", "stap 4"]
}

KRITIEKE INSTRUCTIES:
- BELANGRIJK: Geef ALLE 3 AI-kansen terug uit de basis analyse - elke kans moet een complete uitwerking krijgen
- Schrijf het rapport als een VOORSTEL van AI-Group - positioneer AI-Group duidelijk als de implementatiepartner
- Wees BEKNOPT: beschrijvingen moeten 80-120 woorden zijn, niet 200+ woorden
- Wees REALISTISCH: ROI schattingen moeten conservatief zijn (50-120% is realistisch, niet 200-400%)
- Geef alleen jaar 1 financiële projectie - geen uitgebreide 3-jaar projecties
- Implementatieplan: 3 fasen met elk 2-3 activiteiten
- Alle beschrijvingen moeten specifiek zijn voor dit bedrijf - geen generieke voorbeelden
- Geef alleen geldige JSON terug, geen extra tekst`

func reportUserPrompt(url string, basic domain.Analysis) string {
	opps, err := json.MarshalIndent(basic.Opportunities, "", "  ")
	if err != nil {
		opps = []byte("[]")
	}
	return fmt.Sprintf(`Je bent een expert in bedrijfsanalyse en AI-implementaties. Je schrijft dit rapport als een VOORSTEL van AI-Group, een gespecialiseerd AI-implementatiebedrijf. Op basis van de volgende basis analyse, genereer een BEDRIJFSSPECIFIEK VOORSTEL in JSON formaat.

BELANGRIJK: Geef ALLE 3 AI-kansen terug uit de basis analyse. Zorg dat elke kans een complete uitwerking krijgt.

Website URL: %s
Bedrijfsbeschrijving: %s

AI Kansen:
%s

`, url, basic.CompanyDescription, opps) + reportResponseFormat
}
