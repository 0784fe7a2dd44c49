package generator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ParseStatus tells why a parse produced or did not produce a usable listing.
type ParseStatus string

const (
	ParseOK                 ParseStatus = "ok"
	ParseNoBlock            ParseStatus = "no_block"
	ParseMissingTitle       ParseStatus = "missing_title"
	ParseMissingDescription ParseStatus = "missing_description"
)

const (
	titleLabel       = "TITLE:"
	descriptionLabel = "DESCRIPTION:"
)

// ParseResult is the listing extracted from one model answer.
type ParseResult struct {
	Raw         string
	Title       string
	Description string
	HasBlock    bool
	Status      ParseStatus
}

var (
	fenceOpenRe  = regexp.MustCompile("^```[a-zA-Z0-9_-]*\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
)

// CleanText trims the answer and strips a surrounding Markdown code fence.
func CleanText(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = fenceOpenRe.ReplaceAllString(text, "")
		text = fenceCloseRe.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// ParseBlock extracts title and description from the [tag] block of raw.
// A missing block is reported through HasBlock and Status, never as an error.
func ParseBlock(raw, tag string) ParseResult {
	cleaned := CleanText(raw)
	res := ParseResult{Raw: cleaned, Status: ParseNoBlock}

	block := extractBlock(cleaned, tag)
	if block == "" {
		return res
	}
	res.HasBlock = true
	res.Title = extractTitle(block)
	res.Description = extractDescription(block)

	switch {
	case res.Title == "":
		res.Status = ParseMissingTitle
	case res.Description == "":
		res.Status = ParseMissingDescription
	default:
		res.Status = ParseOK
	}
	return res
}

// extractBlock returns the trimmed text after the first [tag] up to the next
// line that starts with another two-letter tag.
func extractBlock(text, tag string) string {
	marker := "[" + tag + "]"
	start := strings.Index(text, marker)
	if start < 0 {
		return ""
	}
	rest := text[start+len(marker):]
	end := len(rest)
	for i := 0; i < len(rest); i++ {
		if rest[i] == '\n' && isTagAt(rest, i+1) {
			end = i
			break
		}
	}
	return strings.TrimSpace(rest[:end])
}

// isTagAt reports whether s holds "[XX]" at i with XX two uppercase ASCII letters.
func isTagAt(s string, i int) bool {
	if i+4 > len(s) {
		return false
	}
	return s[i] == '[' && isUpper(s[i+1]) && isUpper(s[i+2]) && s[i+3] == ']'
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func extractTitle(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, titleLabel) {
			continue
		}
		if title := strings.TrimSpace(strings.TrimPrefix(trimmed, titleLabel)); title != "" {
			return title
		}
		// label alone on its line: the title follows on the next non-empty line
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" {
				continue
			}
			if strings.HasPrefix(next, descriptionLabel) {
				return ""
			}
			return next
		}
		return ""
	}
	return ""
}

func extractDescription(block string) string {
	idx := strings.Index(block, descriptionLabel)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(block[idx+len(descriptionLabel):])
}

// TitleLength counts the characters of the trimmed, NFC-normalised title.
func TitleLength(title string) int {
	return utf8.RuneCountInString(norm.NFC.String(strings.TrimSpace(title)))
}

// TitleWithinLimit reports whether the title fits into TitleLimit characters.
func TitleWithinLimit(title string) bool {
	return TitleLength(title) <= TitleLimit
}
