package generator

import "time"

// TitleLimit is the maximum title length in characters.
const TitleLimit = 80

// BlockTag marks the listing block the model must return.
const BlockTag = "DE"

// Fields are the operator-editable inputs of a listing.
type Fields struct {
	Source       string `json:"source" yaml:"source"`
	VariantsNote string `json:"variants_note" yaml:"variants_note"`
	UpdateNotes  string `json:"update_notes" yaml:"update_notes"`
}

// Draft is the current listing text. Raw is what the model will be asked to update next.
type Draft struct {
	Raw         string `json:"raw" yaml:"raw"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Empty reports whether no draft has been generated yet.
func (d Draft) Empty() bool {
	return d.Raw == ""
}

// Image is one uploaded product photo.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ImageNotes caches the facts extracted from the last analysed image set.
type ImageNotes struct {
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Notes       string `json:"notes" yaml:"notes"`
}

// Action names a draft-producing step.
type Action string

const (
	ActionGenerate Action = "generate"
	ActionUpdate   Action = "update"
)

// Outcome is the result of one generate or update action.
type Outcome struct {
	Draft       Draft       `json:"draft" yaml:"draft"`
	Status      ParseStatus `json:"status" yaml:"status"`
	TitleFixed  bool        `json:"title_fixed" yaml:"title_fixed"`
	TitleLength int         `json:"title_length" yaml:"title_length"`
	TitleOK     bool        `json:"title_ok" yaml:"title_ok"`
}

// Turn records one draft-producing action in the session history.
type Turn struct {
	Action     Action    `json:"action"`
	Notes      string    `json:"notes,omitempty"`
	Draft      Draft     `json:"draft"`
	TitleFixed bool      `json:"title_fixed"`
	CreatedAt  time.Time `json:"created_at"`
}
