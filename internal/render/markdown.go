package render

import (
	"fmt"
	"strings"

	apperrors "datanotes/internal/errors"
)

// Markdown renders the document body as the post's index.md. Figures are
// referenced by a data attribute the site's chart loader resolves against
// the JSON artifacts written next to the document.
func Markdown(doc *Document) (string, error) {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", doc.Title)
	fmt.Fprintf(&b, "date: %s\n", doc.Generated.Format("2006-01-02"))
	b.WriteString("---\n\n")

	for _, section := range doc.Sections {
		if section.Heading != "" {
			fmt.Fprintf(&b, "## %s\n\n", section.Heading)
		}

		for _, paragraph := range section.Prose {
			b.WriteString(strings.TrimSpace(paragraph))
			b.WriteString("\n\n")
		}

		if section.Table != nil {
			if err := writeTable(&b, section.Table); err != nil {
				return "", err
			}
		}

		if section.Figure != nil {
			fmt.Fprintf(&b, "<div class=\"figure\" data-figure=\"%s.json\"></div>\n\n", section.Figure.Name)
			if section.Figure.Caption != "" {
				fmt.Fprintf(&b, "*%s*\n\n", section.Figure.Caption)
			}
		}
	}

	return b.String(), nil
}

// writeTable emits a GitHub-style pipe table. Short rows are padded to
// the header width; a row wider than the header would lose cells, so it
// is rejected instead.
func writeTable(b *strings.Builder, table *TableBlock) error {
	if len(table.Headers) == 0 {
		return nil
	}

	fmt.Fprintf(b, "| %s |\n", strings.Join(table.Headers, " | "))

	separators := make([]string, len(table.Headers))
	for i := range separators {
		separators[i] = "---"
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(separators, " | "))

	for i, row := range table.Rows {
		if len(row) > len(table.Headers) {
			return apperrors.NewRenderError(
				fmt.Sprintf("table row %d has %d cells, header has %d", i, len(row), len(table.Headers)), nil).
				WithContext("caption", table.Caption)
		}
		cells := make([]string, len(table.Headers))
		copy(cells, row)
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
	b.WriteString("\n")

	if table.Caption != "" {
		fmt.Fprintf(b, "*%s*\n\n", table.Caption)
	}
	return nil
}
