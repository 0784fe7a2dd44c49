package generator

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Session holds the state of one listing for the lifetime of an interactive
// session. Actions are serialised: a second action while one is running
// fails with ErrBusy, and a failed action leaves every field untouched.
type Session struct {
	ID string

	agent *Agent

	mu         sync.Mutex
	busy       bool
	epoch      uint64
	fields     Fields
	draft      Draft
	imageNotes ImageNotes
	report     string
	status     ParseStatus
	history    []Turn
}

// State is a read-only copy of a session.
type State struct {
	ID            string      `json:"session_id"`
	Fields        Fields      `json:"fields"`
	Draft         Draft       `json:"draft"`
	ImageNotes    ImageNotes  `json:"image_notes"`
	QualityReport string      `json:"quality_report"`
	Status        ParseStatus `json:"status,omitempty"`
	TitleLength   int         `json:"title_length"`
	TitleOK       bool        `json:"title_ok"`
	CanUpdate     bool        `json:"can_update"`
	CanCheck      bool        `json:"can_check"`
	Busy          bool        `json:"busy"`
	History       []Turn      `json:"history"`
}

// NewSession creates a session without a draft.
func NewSession(id string, agent *Agent) *Session {
	return &Session{
		ID:    id,
		agent: agent,
	}
}

// State returns a snapshot of all fields.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]Turn, len(s.history))
	copy(history, s.history)
	return State{
		ID:            s.ID,
		Fields:        s.fields,
		Draft:         s.draft,
		ImageNotes:    s.imageNotes,
		QualityReport: s.report,
		Status:        s.status,
		TitleLength:   TitleLength(s.draft.Title),
		TitleOK:       TitleWithinLimit(s.draft.Title),
		CanUpdate:     !s.draft.Empty(),
		CanCheck:      s.draft.Title != "" || s.draft.Description != "",
		Busy:          s.busy,
		History:       history,
	}
}

// SetFields replaces the operator inputs.
func (s *Session) SetFields(f Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = f
}

// EditListing stores operator edits of title and description. The raw draft
// the model updates next is left as generated.
func (s *Session) EditListing(title, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Title = title
	s.draft.Description = description
}

// Clear resets every field at once. The result of an action still in flight
// is discarded.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.fields = Fields{}
	s.draft = Draft{}
	s.imageNotes = ImageNotes{}
	s.report = ""
	s.status = ""
	s.history = nil
}

type snapshot struct {
	epoch      uint64
	fields     Fields
	draft      Draft
	imageNotes ImageNotes
}

func (sn snapshot) inputs() Inputs {
	return Inputs{Fields: sn.fields, ImageNotes: sn.imageNotes.Notes}
}

// begin marks the session busy after check accepted the current state.
func (s *Session) begin(check func(snapshot) error) (snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return snapshot{}, ErrBusy
	}
	sn := snapshot{
		epoch:      s.epoch,
		fields:     s.fields,
		draft:      s.draft,
		imageNotes: s.imageNotes,
	}
	if check != nil {
		if err := check(sn); err != nil {
			return snapshot{}, err
		}
	}
	s.busy = true
	return sn, nil
}

// finish clears the busy mark and applies the result unless the session was
// cleared meanwhile.
func (s *Session) finish(sn snapshot, apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if apply != nil && sn.epoch == s.epoch {
		apply()
	}
}

func requireSource(sn snapshot) error {
	if strings.TrimSpace(sn.fields.Source) == "" {
		return ErrSourceRequired
	}
	return nil
}

// AttachImages analyses the uploaded images unless the same set was analysed
// before. It reports whether a remote analysis ran.
func (s *Session) AttachImages(ctx context.Context, images []Image) (bool, error) {
	if len(images) == 0 {
		return false, nil
	}
	fp := Fingerprint(images)
	sn, err := s.begin(nil)
	if err != nil {
		return false, err
	}
	if sn.imageNotes.Fingerprint == fp {
		s.finish(sn, nil)
		return false, nil
	}
	notes, err := s.agent.AnalyzeImages(ctx, images)
	if err != nil {
		s.finish(sn, nil)
		return false, err
	}
	s.finish(sn, func() {
		s.imageNotes = ImageNotes{Fingerprint: fp, Notes: notes}
	})
	return true, nil
}

// Generate replaces the draft with a new listing.
func (s *Session) Generate(ctx context.Context) (Outcome, error) {
	sn, err := s.begin(requireSource)
	if err != nil {
		return Outcome{}, err
	}
	out, err := s.agent.Generate(ctx, sn.inputs())
	if err != nil {
		s.finish(sn, nil)
		return Outcome{}, err
	}
	s.finish(sn, func() { s.apply(ActionGenerate, sn.fields.UpdateNotes, out) })
	return out, nil
}

// ApplyUpdates revises the current draft with the update notes.
func (s *Session) ApplyUpdates(ctx context.Context) (Outcome, error) {
	sn, err := s.begin(func(sn snapshot) error {
		if sn.draft.Empty() {
			return ErrNoDraft
		}
		return requireSource(sn)
	})
	if err != nil {
		return Outcome{}, err
	}
	out, err := s.agent.Update(ctx, sn.inputs(), sn.draft)
	if err != nil {
		s.finish(sn, nil)
		return Outcome{}, err
	}
	s.finish(sn, func() { s.apply(ActionUpdate, sn.fields.UpdateNotes, out) })
	return out, nil
}

func (s *Session) apply(action Action, notes string, out Outcome) {
	s.draft = out.Draft
	s.status = out.Status
	s.history = append(s.history, Turn{
		Action:     action,
		Notes:      strings.TrimSpace(notes),
		Draft:      out.Draft,
		TitleFixed: out.TitleFixed,
		CreatedAt:  time.Now(),
	})
}

// QualityCheck stores a report on the current title and description. The
// listing itself is never modified.
func (s *Session) QualityCheck(ctx context.Context) (string, error) {
	sn, err := s.begin(func(sn snapshot) error {
		if sn.draft.Title == "" && sn.draft.Description == "" {
			return ErrNothingToCheck
		}
		return requireSource(sn)
	})
	if err != nil {
		return "", err
	}
	report, err := s.agent.QualityCheck(ctx, sn.inputs(), sn.draft.Title, sn.draft.Description)
	if err != nil {
		s.finish(sn, nil)
		return "", err
	}
	s.finish(sn, func() { s.report = report })
	return report, nil
}
