package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundamental_audit/pkg/core/audit"
	"fundamental_audit/pkg/core/score"
	"fundamental_audit/pkg/core/validation"
	"fundamental_audit/pkg/models"
)

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }

func sampleReport() *audit.Report {
	return &audit.Report{
		Ticker:     "ACME",
		Period:     models.PeriodAnnual,
		FiscalDate: "2024-12-31",
		Validation: []validation.Record{
			{
				RatioName:            "currentRatio",
				Reported:             6.0,
				Computed:             fptr(6.0),
				PercentageDifference: fptr(0),
				DiscrepancyFlag:      bptr(false),
			},
			{
				RatioName:            "debtRatio",
				Reported:             0.4,
				Computed:             fptr(0.5),
				PercentageDifference: fptr(25),
				DiscrepancyFlag:      bptr(true),
			},
		},
		DiscrepanciesLogged: true,
		DuPont:              &score.DuPontResult{CalculatedROE: fptr(0.2)},
		Altman:              &score.AltmanResult{Z: 4.698, Classification: score.AltmanSafe},
		Piotroski:           &score.PiotroskiResult{Score: 8},
		VaR:                 &score.VaRResult{Parametric: 0.0341, Historical: 0.04, MonteCarlo: 0.035, Confidence: 0.95},
		ROETrend:            &validation.TrendResult{RatioName: "returnOnEquity", CAGR: fptr(-0.33), ValidPoints: 2},
		Recommendations:     []string{"Investigate reported-vs-computed discrepancies in: debtRatio"},
		MissingData:         []string{"value_at_risk"},
		Summary:             "ACME (annual, 2024-12-31): ROE 20.0%",
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleReport())

	assert.True(t, strings.HasPrefix(md, "# Fundamental Audit: ACME\n"))
	assert.Contains(t, md, "**Summary:** ACME (annual, 2024-12-31): ROE 20.0%")

	assert.Contains(t, md, "## Ratio Validation")
	assert.Contains(t, md, "| Ratio | Reported | Computed | Diff % | Flag |")
	assert.Contains(t, md, "| debtRatio | 0.4000 | 0.5000 | 25.00 | DISCREPANCY |")
	assert.Contains(t, md, "| currentRatio | 6.0000 | 6.0000 | 0.00 |  |")

	assert.Contains(t, md, "## Scores")
	assert.Contains(t, md, "- DuPont ROE: 0.2000")
	assert.Contains(t, md, "- Altman Z: 4.70 (safe)")
	assert.Contains(t, md, "- Piotroski F: 8/9")
	assert.Contains(t, md, "0.0341 / 0.0400 / 0.0350")

	assert.Contains(t, md, "## Return on Equity Trend")
	assert.Contains(t, md, "- CAGR: -33.00%")

	assert.Contains(t, md, "## Recommendations")
	assert.Contains(t, md, "## Missing Data")
	assert.Contains(t, md, "- value_at_risk")
}

func TestRenderMarkdownSparseReport(t *testing.T) {
	md := RenderMarkdown(&audit.Report{
		Ticker:     "ACME",
		Period:     models.PeriodAnnual,
		FiscalDate: "2024-12-31",
		Summary:    "Unable to generate summary: no analysis produced a result.",
	})

	assert.Contains(t, md, "# Fundamental Audit: ACME")
	assert.Contains(t, md, "## Scores")
	assert.NotContains(t, md, "## Ratio Validation")
	assert.NotContains(t, md, "## Recommendations")
	assert.NotContains(t, md, "## Return on Equity Trend")
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Fundamental Audit: ACME</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "DISCREPANCY")
	assert.Contains(t, html, "<h2>Scores</h2>")
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(sampleReport())
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output must be a PDF document")
}
