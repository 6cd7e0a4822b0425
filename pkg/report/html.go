package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"fundamental_audit/pkg/core/audit"
)

// RenderHTML converts the Markdown rendering of the report to an HTML
// fragment. Table support is needed for the validation section.
func RenderHTML(rep *audit.Report) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(rep)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
