package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"listing_tool/generator"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e8d3a3"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	overStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// listing is the machine-readable result of a CLI run; export reads it back.
type listing struct {
	Title         string                `json:"title" yaml:"title"`
	Description   string                `json:"description" yaml:"description"`
	TitleLength   int                   `json:"title_length" yaml:"title_length"`
	TitleOK       bool                  `json:"title_ok" yaml:"title_ok"`
	Status        generator.ParseStatus `json:"status,omitempty" yaml:"status,omitempty"`
	TitleFixed    bool                  `json:"title_fixed,omitempty" yaml:"title_fixed,omitempty"`
	ImageNotes    string                `json:"image_notes,omitempty" yaml:"image_notes,omitempty"`
	QualityReport string                `json:"quality_report,omitempty" yaml:"quality_report,omitempty"`
}

func listingFromState(st generator.State, fixed bool) listing {
	return listing{
		Title:         st.Draft.Title,
		Description:   st.Draft.Description,
		TitleLength:   st.TitleLength,
		TitleOK:       st.TitleOK,
		Status:        st.Status,
		TitleFixed:    fixed,
		ImageNotes:    st.ImageNotes.Notes,
		QualityReport: st.QualityReport,
	}
}

func titleBadge(title string) string {
	n := generator.TitleLength(title)
	badge := fmt.Sprintf("%d/%d", n, generator.TitleLimit)
	if n > generator.TitleLimit {
		return overStyle.Render(badge + " zu lang")
	}
	return okStyle.Render(badge)
}

// preview flattens s to one line no wider than width terminal cells.
func preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return mutedStyle.Render("(leer)")
	}
	return runewidth.Truncate(s, width, "…")
}

func writeListing(w io.Writer, format string, l listing) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
		var sb strings.Builder
		sb.WriteString(headerStyle.Render("TITEL") + " " + titleBadge(l.Title) + "\n")
		sb.WriteString(l.Title + "\n\n")
		sb.WriteString(headerStyle.Render("BESCHREIBUNG") + "\n")
		sb.WriteString(l.Description + "\n")
		if l.Status != "" && l.Status != generator.ParseOK {
			sb.WriteString("\n" + overStyle.Render("Antwort unvollständig: "+string(l.Status)) + "\n")
		}
		if l.QualityReport != "" {
			sb.WriteString("\n" + headerStyle.Render("QUALITÄTSCHECK") + "\n")
			sb.WriteString(boxStyle.Render(l.QualityReport) + "\n")
		}
		_, err := io.WriteString(w, sb.String())
		return err
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// readListing parses a listing written with --output json or yaml.
func readListing(data []byte) (listing, error) {
	var l listing
	if err := yaml.Unmarshal(data, &l); err != nil {
		return listing{}, fmt.Errorf("parse listing: %w", err)
	}
	return l, nil
}

func loadImages(paths []string) ([]generator.Image, error) {
	images := make([]generator.Image, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		images = append(images, generator.Image{
			Name:     filepath.Base(p),
			MIMEType: mime.TypeByExtension(strings.ToLower(filepath.Ext(p))),
			Data:     data,
		})
	}
	return images, nil
}

func readSource(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}
