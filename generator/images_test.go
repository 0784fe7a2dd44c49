package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintIgnoresOrder(t *testing.T) {
	a := Image{Name: "a.jpg", MIMEType: "image/jpeg", Data: []byte("first image")}
	b := Image{Name: "b.png", MIMEType: "image/png", Data: []byte("second image")}

	assert.Equal(t, Fingerprint([]Image{a, b}), Fingerprint([]Image{b, a}))
	assert.NotEqual(t, Fingerprint([]Image{a}), Fingerprint([]Image{a, b}))
	assert.NotEqual(t, Fingerprint([]Image{a, a}), Fingerprint([]Image{a}))
	assert.Equal(t, "", Fingerprint(nil))

	// names and declared types do not matter, only content
	renamed := Image{Name: "other.jpg", MIMEType: "image/webp", Data: []byte("first image")}
	assert.Equal(t, Fingerprint([]Image{a}), Fingerprint([]Image{renamed}))
}

func TestNormalizeImageNotes(t *testing.T) {
	raw := "* Material: 925 Silber\n\n  -   Gewicht:   3,2 g  \n• Gravur \"LOVE\"\n--\n1. Größe 54"
	want := "- Material: 925 Silber\n- Gewicht: 3,2 g\n- Gravur \"LOVE\"\n- 1. Größe 54"
	assert.Equal(t, want, NormalizeImageNotes(raw))
}

func TestNormalizeImageNotesIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"- a\n- b",
		"  *  -  nested   marker\n\t\ttabbed\tline",
		"•••\n- - double",
		strings.Repeat("x ", 20),
	}
	for _, in := range inputs {
		once := NormalizeImageNotes(in)
		assert.Equal(t, once, NormalizeImageNotes(once), "input %q", in)
	}
}

func TestDataURL(t *testing.T) {
	img := Image{MIMEType: "image/png", Data: []byte("hi")}
	assert.Equal(t, "data:image/png;base64,aGk=", img.DataURL())

	sniffed := Image{Data: []byte("\xff\xd8\xff\xe0 jpeg bytes")}
	assert.True(t, strings.HasPrefix(sniffed.DataURL(), "data:image/jpeg;base64,"))
}
