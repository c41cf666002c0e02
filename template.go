package ticketpdf

import (
	"fmt"
	"strings"
)

// Page template placeholders. The first three are required; the page class
// placeholder is optional and receives the paper classes (e.g. "A4 landscape").
const (
	placeholderBaseCSS   = "INJECT_NORMALIZE"
	placeholderPrintCSS  = "INJECT_PAPER_CSS"
	placeholderContent   = "INJECT_CONTENT"
	placeholderPageClass = "INJECT_PAGE_CLASS"
)

// PageTemplate wraps staged chunk markup into a full printable document.
// Everything except the content is resolved at construction, so Compose is a
// plain concatenation and content can never be re-scanned for placeholders.
type PageTemplate struct {
	head string
	tail string
}

// NewPageTemplate checks that tmpl holds each required placeholder and fills
// in the stylesheets and page class.
func NewPageTemplate(tmpl, baseCSS, printCSS string, page PageSettings) (*PageTemplate, error) {
	for _, ph := range []string{placeholderBaseCSS, placeholderPrintCSS, placeholderContent} {
		if !strings.Contains(tmpl, ph) {
			return nil, fmt.Errorf("%w: %s", ErrTemplatePlaceholder, ph)
		}
	}

	i := strings.Index(tmpl, placeholderContent)
	head, tail := tmpl[:i], tmpl[i+len(placeholderContent):]

	replaceOnce := func(ph, value string) {
		if strings.Contains(head, ph) {
			head = strings.Replace(head, ph, value, 1)
			return
		}
		tail = strings.Replace(tail, ph, value, 1)
	}
	// Page class first: stylesheets are user content and may contain anything.
	replaceOnce(placeholderPageClass, page.bodyClass())
	replaceOnce(placeholderBaseCSS, baseCSS)
	replaceOnce(placeholderPrintCSS, printCSS)

	return &PageTemplate{head: head, tail: tail}, nil
}

// Compose returns the document for one chunk, content wrapped in a sheet.
func (t *PageTemplate) Compose(content string) string {
	const open, closing = `<div class="sheet">`, `</div>`

	var b strings.Builder
	b.Grow(len(t.head) + len(open) + len(content) + len(closing) + len(t.tail))
	b.WriteString(t.head)
	b.WriteString(open)
	b.WriteString(content)
	b.WriteString(closing)
	b.WriteString(t.tail)
	return b.String()
}
