package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_tool/generator"
)

func sampleListing() listing {
	return listing{
		Title:       "Goldring 585 mit Zirkonia",
		Description: "Zeitloser Ring.\n\nGröße 54.",
		TitleLength: 25,
		TitleOK:     true,
		Status:      generator.ParseOK,
	}
}

func TestWriteListingYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeListing(&buf, "yaml", sampleListing()))
	assert.Contains(t, buf.String(), "title: Goldring 585 mit Zirkonia")

	got, err := readListing(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sampleListing(), got)
}

func TestWriteListingJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeListing(&buf, "json", sampleListing()))

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "Goldring 585 mit Zirkonia", m["title"])
	assert.NotContains(t, m, "quality_report")

	got, err := readListing(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sampleListing().Description, got.Description)
}

func TestWriteListingText(t *testing.T) {
	l := sampleListing()
	l.QualityReport = "- Problem: keins"
	var buf bytes.Buffer
	require.NoError(t, writeListing(&buf, "text", l))
	out := buf.String()
	assert.Contains(t, out, "Goldring 585 mit Zirkonia")
	assert.Contains(t, out, "25/80")
	assert.Contains(t, out, "Problem: keins")

	assert.Error(t, writeListing(&buf, "xml", l))
}

func TestTitleBadge(t *testing.T) {
	assert.Contains(t, titleBadge("Ring"), "4/80")
	long := strings.Repeat("a", 81)
	assert.Contains(t, titleBadge(long), "81/80 zu lang")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "eins zwei", preview("  eins\n\n zwei ", 40))
	got := preview(strings.Repeat("Ü", 30), 10)
	assert.Equal(t, "ÜÜÜÜÜÜÜÜÜ…", got)
	assert.Contains(t, preview("   ", 10), "(leer)")
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Front.JPG")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

	images, err := loadImages([]string{path, " "})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "Front.JPG", images[0].Name)
	assert.Equal(t, "image/jpeg", images[0].MIMEType)
	assert.Equal(t, []byte("data"), images[0].Data)

	_, err = loadImages([]string{filepath.Join(dir, "missing.png")})
	assert.Error(t, err)
}

func TestReadSourceStdin(t *testing.T) {
	src, err := readSource("-", strings.NewReader("Silberkette 925"))
	require.NoError(t, err)
	assert.Equal(t, "Silberkette 925", src)
}

func TestSplitPaths(t *testing.T) {
	assert.Equal(t, []string{"a.jpg", "b c.png"}, splitPaths(" a.jpg , ,b c.png"))
	assert.Nil(t, splitPaths(""))
}
