package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		title    string
		desc     string
		hasBlock bool
		status   ParseStatus
	}{
		{
			name:     "well formed",
			raw:      "[DE]\nTITLE: Eleganter 14-Karat Goldring\nDESCRIPTION:\nHandgefertigt aus 14-Karat Gold.",
			title:    "Eleganter 14-Karat Goldring",
			desc:     "Handgefertigt aus 14-Karat Gold.",
			hasBlock: true,
			status:   ParseOK,
		},
		{
			name:     "fenced answer",
			raw:      "```text\n[DE]\nTITLE: Ring\nDESCRIPTION:\nSchön.\n```",
			title:    "Ring",
			desc:     "Schön.",
			hasBlock: true,
			status:   ParseOK,
		},
		{
			name:   "no block",
			raw:    "Sorry, I cannot help with that.",
			status: ParseNoBlock,
		},
		{
			name:   "other language only",
			raw:    "[EN]\nTITLE: Ring\nDESCRIPTION:\nNice.",
			status: ParseNoBlock,
		},
		{
			name:   "empty block",
			raw:    "[DE]\n[EN]\nTITLE: Ring",
			status: ParseNoBlock,
		},
		{
			name:     "first title wins",
			raw:      "[DE]\nTITLE: Erster\nTITLE: Zweiter\nDESCRIPTION:\nText",
			title:    "Erster",
			desc:     "Text",
			hasBlock: true,
			status:   ParseOK,
		},
		{
			name:     "block ends at next tag line",
			raw:      "[DE]\nTITLE: Kette\nDESCRIPTION:\nZeile eins\n\nZeile zwei\n[EN]\nTITLE: Necklace\nDESCRIPTION:\nLine",
			title:    "Kette",
			desc:     "Zeile eins\n\nZeile zwei",
			hasBlock: true,
			status:   ParseOK,
		},
		{
			name:     "inline tag inside description",
			raw:      "[DE]\nTITLE: Armband\nDESCRIPTION:\nGravur [AB] auf der Innenseite.\nLänge 18 cm.",
			title:    "Armband",
			desc:     "Gravur [AB] auf der Innenseite.\nLänge 18 cm.",
			hasBlock: true,
			status:   ParseOK,
		},
		{
			name:     "missing description",
			raw:      "[DE]\nTITLE: Nur Titel",
			title:    "Nur Titel",
			hasBlock: true,
			status:   ParseMissingDescription,
		},
		{
			name:     "missing title",
			raw:      "[DE]\nDESCRIPTION:\nNur Text",
			desc:     "Nur Text",
			hasBlock: true,
			status:   ParseMissingTitle,
		},
		{
			name:     "title on following line",
			raw:      "[DE]\nTITLE:\n  Ohrringe Silber\nDESCRIPTION:\nText",
			title:    "Ohrringe Silber",
			desc:     "Text",
			hasBlock: true,
			status:   ParseOK,
		},
		{
			name:     "preamble before block",
			raw:      "Hier ist das Listing:\n\n[DE]  TITLE: Ring Gold\nDESCRIPTION: kurz",
			title:    "Ring Gold",
			desc:     "kurz",
			hasBlock: true,
			status:   ParseOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBlock(tt.raw, "DE")
			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, tt.desc, got.Description)
			assert.Equal(t, tt.hasBlock, got.HasBlock)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestParseBlockKeepsCleanedRaw(t *testing.T) {
	got := ParseBlock("  ```\n[DE]\nTITLE: A\nDESCRIPTION:\nB\n```  ", "DE")
	assert.Equal(t, "[DE]\nTITLE: A\nDESCRIPTION:\nB", got.Raw)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "", CleanText("   "))
	assert.Equal(t, "plain", CleanText(" plain \n"))
	assert.Equal(t, "body", CleanText("```markdown\nbody\n```"))
	assert.Equal(t, "not ```fenced```", CleanText("not ```fenced```"))
}

func TestTitleWithinLimit(t *testing.T) {
	assert.True(t, TitleWithinLimit(""))
	assert.True(t, TitleWithinLimit(strings.Repeat("a", 80)))
	assert.False(t, TitleWithinLimit(strings.Repeat("a", 81)))
	assert.True(t, TitleWithinLimit("  "+strings.Repeat("a", 80)+"  "))

	// umlauts count as one character, decomposed or not
	assert.True(t, TitleWithinLimit(strings.Repeat("ü", 80)))
	assert.True(t, TitleWithinLimit(strings.Repeat("u\u0308", 80)))
	assert.Equal(t, 3, TitleLength("Öse"))
}
