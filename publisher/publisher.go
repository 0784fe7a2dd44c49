package publisher

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/yuin/goldmark"
)

// CopyKind names one of the strings the operator can copy out.
type CopyKind string

const (
	CopyTitle       CopyKind = "title"
	CopyBoth        CopyKind = "both"
	CopyDescription CopyKind = "description"
	CopyTemplate    CopyKind = "template"
)

// CopyKinds lists every copy action in display order.
var CopyKinds = []CopyKind{CopyTitle, CopyBoth, CopyDescription, CopyTemplate}

// Payloads are the exact strings handed to the clipboard.
type Payloads struct {
	Title       string `json:"title"`
	Both        string `json:"both"`
	Description string `json:"description"`
	Template    string `json:"template"`
}

// Publisher prepares a listing for pasting into the marketplace editor.
type Publisher struct {
	renderer *Renderer
	md       goldmark.Markdown
}

// New creates a Publisher for brand.
func New(brand Brand) *Publisher {
	return &Publisher{
		renderer: NewRenderer(brand),
		md:       goldmark.New(),
	}
}

// Export renders the marketplace HTML fragment.
func (p *Publisher) Export(title, description string) string {
	return p.renderer.Render(title, description)
}

// Payloads builds all copy strings for a listing.
func (p *Publisher) Payloads(title, description string) Payloads {
	return Payloads{
		Title:       title,
		Both:        title + "\n\n" + description,
		Description: description,
		Template:    p.Export(title, description),
	}
}

// Get returns the payload for kind.
func (pl Payloads) Get(kind CopyKind) (string, error) {
	switch kind {
	case CopyTitle:
		return pl.Title, nil
	case CopyBoth:
		return pl.Both, nil
	case CopyDescription:
		return pl.Description, nil
	case CopyTemplate:
		return pl.Template, nil
	default:
		return "", fmt.Errorf("unknown copy target %q (want title, both, description or template)", kind)
	}
}

// CopyToClipboard writes the selected payload to the system clipboard.
func (p *Publisher) CopyToClipboard(kind CopyKind, title, description string) error {
	text, err := p.Payloads(title, description).Get(kind)
	if err != nil {
		return err
	}
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not available on this system")
	}
	return clipboard.WriteAll(text)
}

// ReportHTML converts the Markdown quality report to HTML for display.
// Raw HTML in the report is not passed through.
func (p *Publisher) ReportHTML(report string) (string, error) {
	report = strings.TrimSpace(report)
	if report == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(report), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
