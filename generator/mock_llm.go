package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a placeholder for local debugging that never calls a remote model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	switch {
	case len(prompt.Images) > 0:
		var sb strings.Builder
		for _, img := range prompt.Images {
			fmt.Fprintf(&sb, "- Bild %s (%s, %d Bytes)\n", img.Name, img.ContentType(), len(img.Data))
		}
		return sb.String(), nil
	case prompt.System == QualityCheckSystemPrompt:
		return "Keine Auffälligkeiten gefunden.", nil
	}

	source := sectionBody(prompt.User, "SOURCE:")
	if source == "" {
		// title-fix turn: repeat the last answer
		for i := len(prompt.History) - 1; i >= 0; i-- {
			if prompt.History[i].Role == "assistant" {
				return prompt.History[i].Content, nil
			}
		}
	}
	firstLine, _, _ := strings.Cut(source, "\n")

	var sb strings.Builder
	sb.WriteString("[" + BlockTag + "]\n")
	sb.WriteString("TITLE: " + truncateRunes(firstLine, TitleLimit) + "\n")
	sb.WriteString("DESCRIPTION:\n")
	sb.WriteString(source)
	if notes := sectionBody(prompt.User, "UPDATE NOTES:"); notes != "" && notes != EmptyPlaceholder {
		sb.WriteString("\n\n" + notes)
	}
	return sb.String(), nil
}

// sectionBody returns the text under header up to the next blank line.
func sectionBody(user, header string) string {
	_, after, ok := strings.Cut(user, header+"\n")
	if !ok {
		return ""
	}
	body, _, _ := strings.Cut(after, "\n\n")
	return strings.TrimSpace(body)
}

func truncateRunes(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
