package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message sequence sent to the LLM: system, history, then the
// current user message with optional images.
type Prompt struct {
	Model   string
	System  string
	History []Message
	User    string
	Images  []Image
}

// Message is one earlier turn of the conversation.
type Message struct {
	Role    string
	Content string
}

// FollowUp returns a copy of p that carries the previous exchange in its
// history and asks instruction next.
func (p Prompt) FollowUp(assistant, instruction string) Prompt {
	history := make([]Message, 0, len(p.History)+2)
	history = append(history, p.History...)
	history = append(history,
		Message{Role: "user", Content: p.User},
		Message{Role: "assistant", Content: assistant},
	)
	return Prompt{
		Model:   p.Model,
		System:  p.System,
		History: history,
		User:    instruction,
	}
}

// EmptyPlaceholder stands in for optional inputs the operator left blank.
const EmptyPlaceholder = "(keine)"

const ListingSystemPrompt = `Du erstellst professionelle deutsche Schmuck-Listings für Marktplätze.

Ausgabeformat MUSS exakt sein:

[DE]
TITLE: <eine Zeile>
DESCRIPTION:
<ein oder mehrere Absätze>

Regeln:
- Gib NUR den [DE]-Block aus.
- Titel SEO-stark und klickstark formulieren.
- Titel darf maximal 80 Zeichen haben.
- Übernimm KEINE Marken-, Hersteller-, Shop- oder Modellnamen aus dem Input.
- Nutze Informationen aus SOURCE, IMAGE NOTES, VARIANTS NOTE und UPDATE NOTES als Faktenbasis.
- Keine Emojis, keine Zusatzkommentare.`

const QualityCheckSystemPrompt = `Du bist ein strenger QA-Prüfer für deutsche Schmuck-Listings.

Wichtig:
- Du darfst KEINEN Titel und KEINE Beschreibung umschreiben.
- Du gibst NUR einen Prüfbericht aus.
- Alle Prüfregeln sind gleich wichtig. Keine Priorisierung.
- Prüfe vollständig gegen SOURCE, IMAGE NOTES, VARIANTS NOTE und UPDATE NOTES.

Prüfpunkte:
- Faktenwidersprüche
- Fehlende relevante Fakten aus den Eingaben
- Titel länger als 80 Zeichen
- Übernommene Marken-/Hersteller-/Shop-/Modellnamen
- Unklare, unprofessionelle oder nicht SEO-taugliche Formulierungen

Ausgabeformat:
- Wenn Probleme gefunden werden: pro Zeile genau
  "- Problem: <kurz> | Stelle: <Titel/Beschreibung> | Grund: <faktischer Grund>"
- Wenn keine Probleme gefunden werden: genau
  "Keine Auffälligkeiten gefunden."`

const VisionSystemPrompt = `Extrahiere nur klar sichtbare, lesbare Fakten aus dem Bild.

Regeln:
- Nicht raten oder interpretieren.
- Erfasse alle sichtbaren Material-, Metall-, Maß-, Gewichts-, Farb- und Designangaben.
- Erfasse sichtbaren Text auf dem Bild möglichst exakt.
- Erfasse erkennbare Varianten (z. B. unterschiedliche Farben/Materialien/Größen).
- Rückgabe als faktische Bullet-List.`

// VisionInstruction accompanies every image.
const VisionInstruction = "Extrahiere alle lesbaren Schmuck-Fakten inkl. sichtbarer Schrift und Varianten."

// TitleFixInstruction asks for a shorter title in the same block format.
var TitleFixInstruction = fmt.Sprintf(
	"Kürze NUR den %s TITLE auf maximal %d Zeichen. Bedeutung/Fakten beibehalten. Rest unverändert. Gib erneut das gleiche [%s]-Format aus.",
	BlockTag, TitleLimit, BlockTag,
)

// Inputs is everything the prompt builders read from a session.
type Inputs struct {
	Fields
	ImageNotes string
}

func orPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return EmptyPlaceholder
	}
	return s
}

func writeSection(sb *strings.Builder, header, body string) {
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("\n\n")
}

func writeFacts(sb *strings.Builder, in Inputs) {
	writeSection(sb, "SOURCE:", strings.TrimSpace(in.Source))
	writeSection(sb, "IMAGE NOTES (aus Bildern extrahiert; verbindliche Fakten):", orPlaceholder(in.ImageNotes))
	writeSection(sb, "VARIANTS NOTE:", orPlaceholder(in.VariantsNote))
}

func writeTask(sb *strings.Builder, lines ...string) {
	sb.WriteString("Aufgabe:\n")
	for _, l := range lines {
		sb.WriteString("- ")
		sb.WriteString(l)
		sb.WriteString("\n")
	}
}

// BuildInitialPrompt asks for a brand-new listing.
func BuildInitialPrompt(in Inputs) Prompt {
	var sb strings.Builder
	writeFacts(&sb, in)
	writeSection(&sb, "UPDATE NOTES:", orPlaceholder(in.UpdateNotes))
	writeTask(&sb,
		"Erstelle ein neues deutsches Schmuck-Listing.",
		"Berücksichtige Bildinformationen und sichtbaren Bildtext vollständig als Fakten.",
	)
	return Prompt{
		System: ListingSystemPrompt,
		User:   strings.TrimSpace(sb.String()),
	}
}

// BuildUpdatePrompt asks for minimal edits of current driven by the update notes.
func BuildUpdatePrompt(in Inputs, current Draft) Prompt {
	var sb strings.Builder
	writeFacts(&sb, in)
	writeSection(&sb, "CURRENT DRAFT (beibehalten, nur minimal ändern):", strings.TrimSpace(current.Raw))
	writeSection(&sb, "UPDATE NOTES:", orPlaceholder(in.UpdateNotes))
	writeTask(&sb,
		"Aktualisiere den CURRENT DRAFT minimal anhand der UPDATE NOTES.",
		"Berücksichtige Bildinformationen und sichtbaren Bildtext vollständig als Fakten.",
	)
	return Prompt{
		System: ListingSystemPrompt,
		User:   strings.TrimSpace(sb.String()),
	}
}

// BuildQualityCheckPrompt asks for a report on title and description. The
// model must not rewrite the listing.
func BuildQualityCheckPrompt(in Inputs, title, description string) Prompt {
	var sb strings.Builder
	writeFacts(&sb, in)
	writeSection(&sb, "UPDATE NOTES:", orPlaceholder(in.UpdateNotes))
	writeSection(&sb, fmt.Sprintf("ZU PRÜFENDER TITEL (%s):", BlockTag), strings.TrimSpace(title))
	writeSection(&sb, fmt.Sprintf("ZU PRÜFENDE BESCHREIBUNG (%s):", BlockTag), strings.TrimSpace(description))
	writeTask(&sb,
		"Prüfe den Titel und die Beschreibung vollständig.",
		"Erzeuge ausschließlich einen Prüfbericht gemäß vorgegebenem Format.",
		"Schreibe den Listing-Text nicht um und schlage keine Neuformulierung als Volltext vor.",
	)
	return Prompt{
		System: QualityCheckSystemPrompt,
		User:   strings.TrimSpace(sb.String()),
	}
}

// BuildVisionPrompt asks for the visible facts of one image.
func BuildVisionPrompt(img Image) Prompt {
	return Prompt{
		System: VisionSystemPrompt,
		User:   VisionInstruction,
		Images: []Image{img},
	}
}
