package publisher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEscapesMarkup(t *testing.T) {
	out := RenderExport("<script>alert(1)</script> Ring", "Gold & Silber <b>fett</b>")

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `<h1 class="luxe-title">&lt;script&gt;alert(1)&lt;/script&gt; Ring</h1>`)
	assert.Contains(t, out, `<div class="luxe-desc">Gold &amp; Silber &lt;b&gt;fett&lt;/b&gt;</div>`)
}

func TestRenderParagraphs(t *testing.T) {
	out := RenderExport("  Ring  ", "\nAbsatz eins\nZeile zwei\n\nAbsatz zwei\n")

	assert.Contains(t, out, `<h1 class="luxe-title">Ring</h1>`)
	assert.Contains(t, out, `<div class="luxe-desc">Absatz eins<br>Zeile zwei<br><br>Absatz zwei</div>`)
}

func TestRenderSubstitutesOnce(t *testing.T) {
	out := RenderExport("{{DESCRIPTION}}", "Text")

	assert.Contains(t, out, `<h1 class="luxe-title">{{DESCRIPTION}}</h1>`)
	assert.Contains(t, out, `<div class="luxe-desc">Text</div>`)
	assert.NotContains(t, out, "{{TITLE}}")
}

func TestRenderBrand(t *testing.T) {
	out := NewRenderer(Brand{Name: "Gold & Co"}).Render("T", "D")

	assert.Contains(t, out, `<span class="luxe-brand-logo">Gold &amp; Co</span>`)
	assert.Contains(t, out, "Fine &amp; Contemporary Jewelry")
	assert.Contains(t, out, "© 2026 Gold &amp; Co")
	assert.NotContains(t, out, "{{BRAND}}")
	assert.NotContains(t, out, "{{TAGLINE}}")
}

func TestPayloads(t *testing.T) {
	p := New(DefaultBrand)
	pl := p.Payloads("Titel", "Beschreibung")

	assert.Equal(t, "Titel", pl.Title)
	assert.Equal(t, "Titel\n\nBeschreibung", pl.Both)
	assert.Equal(t, "Beschreibung", pl.Description)
	assert.Equal(t, p.Export("Titel", "Beschreibung"), pl.Template)

	for _, kind := range CopyKinds {
		_, err := pl.Get(kind)
		assert.NoError(t, err, kind)
	}
	_, err := pl.Get("nope")
	assert.Error(t, err)
}

func TestReportHTML(t *testing.T) {
	p := New(DefaultBrand)

	html, err := p.ReportHTML("- Problem: Titel zu lang | Stelle: Titel | Grund: 92 Zeichen\n- Problem: <script>x</script>")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(html, "<li>"))
	assert.NotContains(t, html, "<script>")

	empty, err := p.ReportHTML("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
