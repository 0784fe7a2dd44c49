package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Agent turns session inputs into listing drafts, image notes and quality reports.
type Agent struct {
	llm         LLMClient
	textModel   string
	visionModel string
	log         *zap.Logger
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithModels sets the text and vision model identifiers.
func WithModels(text, vision string) AgentOption {
	return func(a *Agent) {
		if text != "" {
			a.textModel = text
		}
		if vision != "" {
			a.visionModel = vision
		}
	}
}

// WithLogger sets the logger used for remote actions.
func WithLogger(log *zap.Logger) AgentOption {
	return func(a *Agent) {
		if log != nil {
			a.log = log
		}
	}
}

func NewAgent(llm LLMClient, opts ...AgentOption) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{
		llm:         llm,
		textModel:   DefaultTextModel,
		visionModel: DefaultVisionModel,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Generate writes a new listing from the inputs.
func (a *Agent) Generate(ctx context.Context, in Inputs) (Outcome, error) {
	return a.draft(ctx, ActionGenerate, BuildInitialPrompt(in))
}

// Update revises current according to the update notes.
func (a *Agent) Update(ctx context.Context, in Inputs, current Draft) (Outcome, error) {
	return a.draft(ctx, ActionUpdate, BuildUpdatePrompt(in, current))
}

// draft runs one completion and, when the block parses but the title is too
// long, exactly one shortening turn. The second answer is final either way.
func (a *Agent) draft(ctx context.Context, action Action, prompt Prompt) (Outcome, error) {
	prompt.Model = a.textModel
	raw, err := a.complete(ctx, string(action), prompt)
	if err != nil {
		return Outcome{}, err
	}
	parsed := ParseBlock(raw, BlockTag)

	fixed := false
	if parsed.HasBlock && !TitleWithinLimit(parsed.Title) {
		a.log.Info("title too long, requesting shorter title",
			zap.String("action", string(action)),
			zap.Int("title_length", TitleLength(parsed.Title)))
		raw, err = a.complete(ctx, "title_fix", prompt.FollowUp(parsed.Raw, TitleFixInstruction))
		if err != nil {
			return Outcome{}, err
		}
		parsed = ParseBlock(raw, BlockTag)
		fixed = true
	}

	if parsed.Status != ParseOK {
		a.log.Warn("listing block incomplete",
			zap.String("action", string(action)),
			zap.String("status", string(parsed.Status)))
	}
	return Outcome{
		Draft: Draft{
			Raw:         parsed.Raw,
			Title:       parsed.Title,
			Description: parsed.Description,
		},
		Status:      parsed.Status,
		TitleFixed:  fixed,
		TitleLength: TitleLength(parsed.Title),
		TitleOK:     TitleWithinLimit(parsed.Title),
	}, nil
}

// QualityCheck returns a report on title and description. It never edits them.
func (a *Agent) QualityCheck(ctx context.Context, in Inputs, title, description string) (string, error) {
	prompt := BuildQualityCheckPrompt(in, title, description)
	prompt.Model = a.textModel
	raw, err := a.complete(ctx, "quality_check", prompt)
	if err != nil {
		return "", err
	}
	return CleanText(raw), nil
}

// AnalyzeImages sends one vision request per image, in upload order, and
// returns the normalised notes of all of them.
func (a *Agent) AnalyzeImages(ctx context.Context, images []Image) (string, error) {
	if len(images) == 0 {
		return "", ErrNoImages
	}
	notes := make([]string, 0, len(images))
	for _, img := range images {
		prompt := BuildVisionPrompt(img)
		prompt.Model = a.visionModel
		raw, err := a.complete(ctx, "image_analysis", prompt)
		if err != nil {
			return "", err
		}
		notes = append(notes, raw)
	}
	return NormalizeImageNotes(strings.Join(notes, "\n")), nil
}

func (a *Agent) complete(ctx context.Context, step string, prompt Prompt) (string, error) {
	start := time.Now()
	raw, err := a.llm.Complete(ctx, prompt)
	fields := []zap.Field{
		zap.String("step", step),
		zap.String("model", prompt.Model),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		a.log.Error("completion failed", append(fields, zap.Error(err))...)
		return "", err
	}
	a.log.Debug("completion done", append(fields, zap.Int("chars", len(raw)))...)
	return raw, nil
}
