package publisher

import (
	"html"
	"strings"
)

const (
	titlePlaceholder       = "{{TITLE}}"
	descriptionPlaceholder = "{{DESCRIPTION}}"
	brandPlaceholder       = "{{BRAND}}"
	taglinePlaceholder     = "{{TAGLINE}}"
)

// Brand is the static decoration printed around every listing.
type Brand struct {
	Name    string
	Tagline string
}

// DefaultBrand matches the shop the template was designed for.
var DefaultBrand = Brand{Name: "Juwelique", Tagline: "Fine & Contemporary Jewelry"}

// Renderer produces the HTML fragment pasted into the marketplace editor.
type Renderer struct {
	template string
}

// NewRenderer bakes the brand into the template once; only title and
// description vary per listing.
func NewRenderer(brand Brand) *Renderer {
	if brand.Name == "" {
		brand.Name = DefaultBrand.Name
	}
	if brand.Tagline == "" {
		brand.Tagline = DefaultBrand.Tagline
	}
	r := strings.NewReplacer(
		brandPlaceholder, html.EscapeString(brand.Name),
		taglinePlaceholder, html.EscapeString(brand.Tagline),
	)
	return &Renderer{template: r.Replace(ebayTemplate)}
}

// Render escapes title and description and substitutes them into the template.
// Blank lines in the description become paragraph breaks, single newlines line breaks.
func (r *Renderer) Render(title, description string) string {
	safeTitle := html.EscapeString(strings.TrimSpace(title))
	safeDesc := html.EscapeString(strings.TrimSpace(description))
	safeDesc = strings.ReplaceAll(safeDesc, "\r\n", "\n")
	safeDesc = strings.ReplaceAll(safeDesc, "\n\n", "<br><br>")
	safeDesc = strings.ReplaceAll(safeDesc, "\n", "<br>")

	// one pass, so placeholder text inside a title is never substituted again
	return strings.NewReplacer(
		titlePlaceholder, safeTitle,
		descriptionPlaceholder, safeDesc,
	).Replace(r.template)
}

// RenderExport renders with the default brand.
func RenderExport(title, description string) string {
	return NewRenderer(DefaultBrand).Render(title, description)
}

const ebayTemplate = `<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link href="https://fonts.googleapis.com/css2?family=Cinzel:wght@400;600&family=Playfair+Display:ital,wght@0,400;0,500;1,400&family=Lato:wght@300;400&display=swap" rel="stylesheet">
<style>
  body, div, h1, h2, h3, p, ul, li, span, img, label, input { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: 'Lato', sans-serif; background-color: #ffffff; color: #262626; line-height: 1.8; -webkit-font-smoothing: antialiased; font-weight: 300; }
  .luxe-container { max-width: 1000px; margin: 0 auto; background: #ffffff; padding: 20px; }
  .luxe-top-bar { text-align: center; border-bottom: 1px solid #fafafa; padding: 40px 0 30px; margin-bottom: 40px; }
  .luxe-brand-logo { font-family: 'Cinzel', serif; font-size: 32px; letter-spacing: 5px; color: #171717; text-transform: uppercase; margin-bottom: 5px; display: block; }
  .luxe-brand-tagline { font-family: 'Playfair Display', serif; font-style: italic; font-size: 12px; color: #a3a3a3; }
  .luxe-title-section { text-align: center; margin-bottom: 50px; }
  .luxe-vertical-line { width: 1px; height: 50px; background-color: #e8d3a3; margin: 0 auto 30px; }
  .luxe-title { font-family: 'Playfair Display', serif; font-size: 38px; color: #171717; margin-bottom: 20px; font-weight: 500; line-height: 1.3; }
  .luxe-grid { display: flex; flex-wrap: wrap; gap: 50px; margin-bottom: 80px; align-items: flex-start; }
  .luxe-col-full { flex: 1 1 100%; max-width: 800px; margin: 0 auto; }
  .luxe-price-block { margin-bottom: 40px; }
  .luxe-price { font-family: 'Playfair Display', serif; font-size: 42px; color: #171717; display: block; line-height: 1; margin-bottom: 10px; }
  .luxe-desc { font-size: 15px; color: #525252; margin-bottom: 40px; text-align: justify; font-weight: 300; }
  .luxe-specs-title { font-family: 'Cinzel', serif; font-size: 10px; letter-spacing: 2px; text-transform: uppercase; color: #171717; border-bottom: 1px solid #f5f5f5; padding-bottom: 10px; margin-bottom: 20px; }
  .luxe-tabs-section { border-top: 1px solid #f5f5f5; padding-top: 60px; margin-top: 60px; text-align: center; position: relative; }
  .luxe-tab-input { display: none; }
  .luxe-tab-header { margin-bottom: 40px; }
  .luxe-tab-title { display: inline-block; margin: 0 20px; font-family: 'Cinzel', serif; font-size: 11px; letter-spacing: 3px; text-transform: uppercase; color: #a3a3a3; border-bottom: 1px solid transparent; padding-bottom: 5px; cursor: pointer; transition: all 0.3s ease; }
  .luxe-tab-content { display: none; max-width: 700px; margin: 0 auto; font-size: 14px; color: #737373; min-height: 100px; }
  #luxe-tab-1:checked ~ .luxe-tab-header label[for="luxe-tab-1"],
  #luxe-tab-2:checked ~ .luxe-tab-header label[for="luxe-tab-2"],
  #luxe-tab-3:checked ~ .luxe-tab-header label[for="luxe-tab-3"] { color: #171717; border-bottom: 1px solid #171717; }
  #luxe-tab-1:checked ~ .luxe-tab-content-1,
  #luxe-tab-2:checked ~ .luxe-tab-content-2,
  #luxe-tab-3:checked ~ .luxe-tab-content-3 { display: block; }
  .luxe-footer { margin-top: 80px; padding-top: 40px; border-top: 1px solid #f5f5f5; text-align: center; }
  .luxe-copyright { font-size: 10px; color: #e5e5e5; letter-spacing: 2px; text-transform: uppercase; }
  @media (max-width: 768px) {
    .luxe-title { font-size: 28px; }
    .luxe-grid { flex-direction: column; gap: 30px; }
    .luxe-tab-title { display: block; margin: 0 0 15px; border-bottom: none !important; }
  }
</style>

<div class="luxe-container">
  <div class="luxe-top-bar"><span class="luxe-brand-logo">{{BRAND}}</span><span class="luxe-brand-tagline">{{TAGLINE}}</span></div>
  <div class="luxe-title-section"><div class="luxe-vertical-line"></div><h1 class="luxe-title">{{TITLE}}</h1></div>
  <div class="luxe-grid">
    <div class="luxe-col-full">
      <div class="luxe-price-block"><span class="luxe-price"></span></div>
      <div class="luxe-desc">{{DESCRIPTION}}</div>
      <div class="luxe-specs">
        <h3 class="luxe-specs-title">Details &amp; Material</h3>
      </div>
    </div>
  </div>
  <div class="luxe-tabs-section">
    <input type="radio" name="luxe-tabs" id="luxe-tab-1" class="luxe-tab-input" checked="">
    <input type="radio" name="luxe-tabs" id="luxe-tab-2" class="luxe-tab-input">
    <input type="radio" name="luxe-tabs" id="luxe-tab-3" class="luxe-tab-input">
    <div class="luxe-tab-header">
      <label for="luxe-tab-1" class="luxe-tab-title">Details</label>
      <label for="luxe-tab-2" class="luxe-tab-title">Versand</label>
      <label for="luxe-tab-3" class="luxe-tab-title">Rückgabe</label>
    </div>
    <div class="luxe-tab-content luxe-tab-content-1">
      Modern icons, precision set. Refined brilliance defines contemporary fine and fashion jewelry, crafted for everyday grandeur.
    </div>
    <div class="luxe-tab-content luxe-tab-content-2">
      Kostenloser &amp; Versicherter Versand.
    </div>
    <div class="luxe-tab-content luxe-tab-content-3">
      30 Tage Rückgaberecht
    </div>
  </div>
  <div class="luxe-footer"><p class="luxe-copyright">© 2026 {{BRAND}}</p></div>
</div>
`
