package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"bizplan/internal/models/response_models"
	"bizplan/internal/questionnaire"

	"github.com/google/uuid"
)

const demoDisclaimer = "This analysis is for informational purposes only and does not constitute professional financial, legal, tax, or investment advice. The success probability score is a conservative estimate based on publicly available data and user-provided inputs."

var demoNamespace = uuid.MustParse("6f1c8e52-3d0a-4b7e-9a55-0c2f1e7d4b19")

type demoScore struct {
	Score  int    `json:"score"`
	Weight string `json:"weight"`
}

// DemoAnalysis builds the placeholder result used when the analysis service
// is unavailable and the demo fallback is enabled. Equal payloads produce
// equal results.
func DemoAnalysis(payload questionnaire.SubmissionPayload) response_models.AnalysisResult {
	raw, _ := json.Marshal(payload)
	id := uuid.NewSHA1(demoNamespace, raw).String()

	name := orDefault(payload.Answer("basics", "name"), "Your business")
	industry := orDefault(payload.Answer("basics", "industry"), "selected")

	market, _ := json.Marshal(map[string]string{
		"market_size":       "Growing market with significant opportunity",
		"trends":            "Industry is experiencing growth with increasing demand",
		"competition_level": "Moderate to high competition",
	})
	competitors, _ := json.Marshal(map[string]any{
		"competitors_found": splitCompetitors(payload.Answer("competition", "competitors")),
		"your_advantage":    orDefault(payload.Answer("customer", "why_choose_you"), "Unique value proposition"),
	})
	scoring, _ := json.Marshal(map[string]demoScore{
		"market_demand":        {65, "20%"},
		"competition":          {55, "15%"},
		"budget_adequacy":      {60, "20%"},
		"differentiation":      {70, "15%"},
		"execution_capability": {60, "15%"},
		"location_fit":         {65, "10%"},
		"timing":               {60, "5%"},
	})

	return response_models.AnalysisResult{
		AnalysisID:         "demo-" + id[:8],
		SuccessProbability: 62,
		RiskLevel:          "moderate",
		Summary: fmt.Sprintf("%s shows moderate potential in the %s industry. Based on your budget, location, and competitive landscape, there are both opportunities and challenges to address.",
			name, industry),
		MarketAnalysis:     market,
		CompetitorAnalysis: competitors,
		ScoringBreakdown:   scoring,
		Recommendations: []string{
			"BUDGET: Consider increasing your startup capital by 30-50% to handle unexpected costs and extend your runway.",
			"DIFFERENTIATION: Strengthen your unique value proposition. Clearly articulate why customers should choose you.",
			"VALIDATION: Before heavy investment, validate demand with a small pilot or pre-sales campaign.",
			"TEAM: Consider filling skill gaps through partnerships or contractors before launch.",
		},
		ImprovementAvailable: true,
		Disclaimer:           demoDisclaimer,
	}
}

func splitCompetitors(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"Competitor 1", "Competitor 2"}
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
