// Package report renders an assembled audit report as Markdown, HTML or PDF.
package report

import (
	"fmt"
	"strings"

	"fundamental_audit/pkg/core/audit"
)

// RenderMarkdown formats the audit report as a Markdown document.
func RenderMarkdown(rep *audit.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fundamental Audit: %s\n\n", rep.Ticker)
	fmt.Fprintf(&b, "Period: %s | Fiscal date: %s\n\n", rep.Period, rep.FiscalDate)
	fmt.Fprintf(&b, "**Summary:** %s\n\n", rep.Summary)

	if len(rep.Validation) > 0 {
		b.WriteString("## Ratio Validation\n\n")
		b.WriteString("| Ratio | Reported | Computed | Diff % | Flag |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, rec := range rep.Validation {
			computed, diff, flag := "n/a", "n/a", ""
			if rec.Computed != nil {
				computed = fmt.Sprintf("%.4f", *rec.Computed)
			}
			if rec.PercentageDifference != nil {
				diff = fmt.Sprintf("%.2f", *rec.PercentageDifference)
			}
			if rec.DiscrepancyFlag != nil && *rec.DiscrepancyFlag {
				flag = "DISCREPANCY"
			}
			fmt.Fprintf(&b, "| %s | %.4f | %s | %s | %s |\n",
				rec.RatioName, rec.Reported, computed, diff, flag)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Scores\n\n")
	if rep.DuPont != nil && rep.DuPont.CalculatedROE != nil {
		fmt.Fprintf(&b, "- DuPont ROE: %.4f\n", *rep.DuPont.CalculatedROE)
	}
	if rep.Altman != nil {
		fmt.Fprintf(&b, "- Altman Z: %.2f (%s)\n", rep.Altman.Z, rep.Altman.Classification)
	}
	if rep.Piotroski != nil {
		fmt.Fprintf(&b, "- Piotroski F: %d/9\n", rep.Piotroski.Score)
	}
	if rep.VaR != nil {
		fmt.Fprintf(&b, "- 95%% VaR (parametric / historical / Monte Carlo): %.4f / %.4f / %.4f\n",
			rep.VaR.Parametric, rep.VaR.Historical, rep.VaR.MonteCarlo)
	}
	b.WriteString("\n")

	if rep.ROETrend != nil {
		b.WriteString("## Return on Equity Trend\n\n")
		if rep.ROETrend.CAGR != nil {
			fmt.Fprintf(&b, "- CAGR: %.2f%%\n", *rep.ROETrend.CAGR*100)
		}
		if rep.ROETrend.Volatility != nil {
			fmt.Fprintf(&b, "- Volatility: %.2f\n", *rep.ROETrend.Volatility)
		}
		fmt.Fprintf(&b, "- Valid points: %d\n\n", rep.ROETrend.ValidPoints)
	}

	if len(rep.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range rep.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	if len(rep.MissingData) > 0 {
		b.WriteString("## Missing Data\n\n")
		for _, m := range rep.MissingData {
			fmt.Fprintf(&b, "- %s\n", m)
		}
		b.WriteString("\n")
	}

	return b.String()
}
