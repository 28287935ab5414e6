package mail

import (
	"html/template"

	"github.com/ai-group/businessscan-backend/internal/domain"
)

type reportTemplateData struct {
	URL         string
	Report      domain.ReportBody
	InternalFor string
	GeneratedAt string
}

// phases flattens the fixed three-phase plan for ranged rendering.
func phases(p domain.ImplementationPlan) []struct {
	Number int
	Phase  domain.Phase
} {
	return []struct {
		Number int
		Phase  domain.Phase
	}{
		{1, p.Phase1},
		{2, p.Phase2},
		{3, p.Phase3},
	}
}

func add(a, b int) int { return a + b }

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"phases": phases,
	"add":    add,
}).Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 800px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; }
    .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
    .section { margin-bottom: 30px; }
    .section-title { color: #667eea; font-size: 24px; margin-bottom: 15px; }
    .opportunity { background: white; padding: 20px; margin-bottom: 20px; border-radius: 8px; border-left: 4px solid #667eea; }
    .phase { background: #f0f0f0; padding: 15px; margin: 10px 0; border-radius: 5px; }
    table { width: 100%; border-collapse: collapse; margin: 15px 0; }
    th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
    th { background-color: #667eea; color: white; }
    .highlight { background-color: #fff3cd; padding: 15px; border-radius: 5px; margin: 15px 0; }
    .approach { background-color: #e3f2fd; padding: 20px; border-radius: 8px; margin-top: 20px; }
    .internal-note { background-color: #e3f2fd; padding: 10px; border-radius: 5px; margin-bottom: 20px; }
    .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Uitgebreide AI Business Quickscan</h1>
      {{if .InternalFor}}<p class="internal-note"><strong>Interne kopie:</strong> Deze analyse is verzonden naar {{.InternalFor}}</p>{{end}}
      <p>Geanalyseerde website: {{.URL}}</p>
    </div>
    <div class="content">
      <div class="section">
        <h2 class="section-title">Bestuurlijke Samenvatting</h2>
        <p>{{.Report.ExecutiveSummary}}</p>
      </div>

      {{range $idx, $opp := .Report.DetailedOpportunities}}
      <div class="section">
        <h2 class="section-title">{{add $idx 1}}. {{$opp.Title}}</h2>
        <div class="opportunity">
          <h3>Beschrijving</h3>
          <p>{{$opp.Description}}</p>

          <h3>Plan van Aanpak</h3>
          {{range phases $opp.ImplementationPlan}}
          <div class="phase">
            <strong>Fase {{.Number}}: {{.Phase.Title}}</strong> ({{.Phase.Duration}})
            <ul>
              {{range .Phase.Activities}}<li>{{.}}</li>{{end}}
            </ul>
          </div>
          {{end}}

          <h3>Businesscase</h3>
          <h4>Financi&euml;le Overzicht Jaar 1</h4>
          {{with $opp.DetailedBusinessCase.FinancialProjection.Year1}}
          <table>
            <tr>
              <th>Investering</th>
              <th>Verwachte Besparingen</th>
              <th>Verwachte Omzetgroei</th>
              <th>Totale Waarde</th>
              <th>ROI</th>
            </tr>
            <tr>
              <td>{{.Investment}}</td>
              <td>{{.ExpectedSavings}}</td>
              <td>{{.ExpectedRevenueIncrease}}</td>
              <td><strong>{{.TotalValue}}</strong></td>
              <td><strong>{{.ROI}}</strong></td>
            </tr>
          </table>
          {{if .BreakEvenPoint}}<p><strong>Break-even punt:</strong> {{.BreakEvenPoint}}</p>{{end}}
          {{if .Summary}}<div class="highlight"><p>{{.Summary}}</p></div>{{end}}
          {{end}}

          <h3>Risico Analyse</h3>
          {{with $opp.DetailedBusinessCase.RiskAnalysis}}
          <p><strong>Technische Risico's:</strong></p>
          <ul>{{range .TechnicalRisks}}<li>{{.}}</li>{{end}}</ul>
          <p><strong>Bedrijfsrisico's:</strong></p>
          <ul>{{range .BusinessRisks}}<li>{{.}}</li>{{end}}</ul>
          <p><strong>Mitigaties:</strong></p>
          <ul>{{range .Mitigations}}<li>{{.}}</li>{{end}}</ul>
          {{end}}

          <h3>Technische Vereisten</h3>
          <ul>{{range $opp.TechnicalRequirements}}<li>{{.}}</li>{{end}}</ul>

          <h3>Succes Metrieken</h3>
          <ul>{{range $opp.SuccessMetrics}}<li>{{.}}</li>{{end}}</ul>

          <h3>Wat AI-Group voor U Doet</h3>
          <div class="approach">
            <h4>Wat We Doen</h4>
            <p>{{$opp.Approach.WhatWeDo}}</p>
            <h4>Hoe We Het Aanpakken</h4>
            <p>{{$opp.Approach.HowWeDoIt}}</p>
            <h4>Waarom Kiest U voor AI-Group?</h4>
            <p>{{$opp.Approach.WhyChooseUs}}</p>
          </div>
        </div>
      </div>
      {{end}}

      <div class="section">
        <h2 class="section-title">Algemene Aanbeveling</h2>
        <div class="highlight">
          <p>{{.Report.OverallRecommendation}}</p>
        </div>
      </div>

      <div class="section">
        <h2 class="section-title">Volgende Stappen</h2>
        <ol>
          {{range .Report.NextSteps}}<li>{{.}}</li>{{end}}
        </ol>
      </div>
    </div>
    <div class="footer">
      <p>Deze analyse is gegenereerd op {{.GeneratedAt}}</p>
      <p>Voor vragen of meer informatie, neem contact met ons op.</p>
    </div>
  </div>
</body>
</html>
`
