package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"fundamental_audit/pkg/core/audit"
)

// RenderPDF renders the audit report to PDF bytes. The layout mirrors the
// Markdown rendering: headings become styled lines, list items and table
// rows become plain cells.
func RenderPDF(rep *audit.Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	for _, line := range strings.Split(RenderMarkdown(rep), "\n") {
		switch {
		case strings.HasPrefix(line, "# "):
			pdf.SetFont("Arial", "B", 16)
			pdf.MultiCell(0, 8, strings.TrimPrefix(line, "# "), "", "L", false)
			pdf.Ln(2)
		case strings.HasPrefix(line, "## "):
			pdf.SetFont("Arial", "B", 12)
			pdf.MultiCell(0, 7, strings.TrimPrefix(line, "## "), "", "L", false)
			pdf.Ln(1)
		case strings.HasPrefix(line, "|---"):
			// table separator row, no visual output
		case strings.HasPrefix(line, "|"):
			pdf.SetFont("Courier", "", 8)
			cells := strings.Split(strings.Trim(line, "|"), "|")
			for i := range cells {
				cells[i] = strings.TrimSpace(cells[i])
			}
			pdf.MultiCell(0, 5, strings.Join(cells, "  "), "", "L", false)
		case strings.HasPrefix(line, "- "):
			pdf.SetFont("Arial", "", 9)
			pdf.MultiCell(0, 5, "  - "+strings.TrimPrefix(line, "- "), "", "L", false)
		case strings.TrimSpace(line) == "":
			pdf.Ln(2)
		default:
			pdf.SetFont("Arial", "", 9)
			text := strings.ReplaceAll(line, "**", "")
			pdf.MultiCell(0, 5, text, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
