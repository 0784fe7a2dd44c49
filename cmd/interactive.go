package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"listing_tool/generator"
	"listing_tool/publisher"
)

const (
	actEditInputs = "inputs"
	actImages     = "images"
	actGenerate   = "generate"
	actUpdate     = "update"
	actCheck      = "check"
	actEdit       = "edit"
	actCopy       = "copy"
	actExport     = "export"
	actClear      = "clear"
	actQuit       = "quit"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"tui"},
	Short:   "Edit and generate a listing in the terminal",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := buildAgent(cfg)
		if err != nil {
			return err
		}
		t := &terminal{
			sess: generator.NewSession(uuid.NewString(), agent),
			pub:  buildPublisher(cfg),
			out:  cmd.OutOrStdout(),
		}
		return t.loop(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

type terminal struct {
	sess   *generator.Session
	pub    *publisher.Publisher
	out    io.Writer
	images string
}

func (t *terminal) loop(ctx context.Context) error {
	for {
		st := t.sess.State()
		t.printSummary(st)

		choice := actGenerate
		if st.CanUpdate {
			choice = actUpdate
		}
		if strings.TrimSpace(st.Fields.Source) == "" {
			choice = actEditInputs
		}
		err := huh.NewSelect[string]().
			Title("Aktion").
			Options(menuOptions(st)...).
			Value(&choice).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == actQuit {
			return nil
		}
		if err := t.do(ctx, choice); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			fmt.Fprintln(t.out, overStyle.Render("Fehler: "+err.Error()))
		}
	}
}

func menuOptions(st generator.State) []huh.Option[string] {
	opts := []huh.Option[string]{
		huh.NewOption("SOURCE / Varianten / Update-Notizen bearbeiten", actEditInputs),
		huh.NewOption("Bilder angeben", actImages),
		huh.NewOption("Generieren", actGenerate),
	}
	if st.CanUpdate {
		opts = append(opts, huh.NewOption("Änderungen anwenden", actUpdate))
	}
	if st.CanCheck {
		opts = append(opts,
			huh.NewOption("Qualitätscheck", actCheck),
			huh.NewOption("Titel / Beschreibung bearbeiten", actEdit),
			huh.NewOption("Kopieren", actCopy),
			huh.NewOption("HTML exportieren", actExport),
		)
	}
	return append(opts,
		huh.NewOption("Alles leeren", actClear),
		huh.NewOption("Beenden", actQuit),
	)
}

func (t *terminal) do(ctx context.Context, action string) error {
	switch action {
	case actEditInputs:
		return t.editInputs()
	case actImages:
		return t.attachImages(ctx)
	case actGenerate:
		return busy("Generiere Listing…", func() error {
			_, err := t.sess.Generate(ctx)
			return err
		})
	case actUpdate:
		return busy("Wende Änderungen an…", func() error {
			_, err := t.sess.ApplyUpdates(ctx)
			return err
		})
	case actCheck:
		if err := busy("Prüfe Listing…", func() error {
			_, err := t.sess.QualityCheck(ctx)
			return err
		}); err != nil {
			return err
		}
		fmt.Fprintln(t.out, boxStyle.Render(t.sess.State().QualityReport))
		return nil
	case actEdit:
		return t.editListing()
	case actCopy:
		return t.copy()
	case actExport:
		return t.export()
	case actClear:
		t.sess.Clear()
		t.images = ""
		return nil
	}
	return fmt.Errorf("unknown action %q", action)
}

// busy runs fn behind a spinner and returns its error.
func busy(title string, fn func() error) error {
	var err error
	if spinErr := spinner.New().Title(title).Action(func() { err = fn() }).Run(); spinErr != nil {
		return spinErr
	}
	return err
}

func (t *terminal) editInputs() error {
	f := t.sess.State().Fields
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("SOURCE").
				Description("Produkttext, Pflichtfeld").
				Lines(10).
				CharLimit(0).
				Value(&f.Source),
			huh.NewText().
				Title("VARIANTS NOTE").
				Lines(3).
				Value(&f.VariantsNote),
			huh.NewText().
				Title("UPDATE NOTES").
				Lines(4).
				Value(&f.UpdateNotes),
		),
	).Run()
	if err != nil {
		return err
	}
	t.sess.SetFields(f)
	return nil
}

func (t *terminal) attachImages(ctx context.Context) error {
	paths := t.images
	err := huh.NewInput().
		Title("Bilddateien").
		Description("Pfade, durch Komma getrennt").
		Value(&paths).
		Validate(func(s string) error {
			for _, p := range splitPaths(s) {
				if _, err := os.Stat(p); err != nil {
					return err
				}
			}
			return nil
		}).
		Run()
	if err != nil {
		return err
	}
	images, err := loadImages(splitPaths(paths))
	if err != nil {
		return err
	}
	t.images = paths

	var analyzed bool
	if err := busy("Analysiere Bilder…", func() error {
		var err error
		analyzed, err = t.sess.AttachImages(ctx, images)
		return err
	}); err != nil {
		return err
	}
	if !analyzed && len(images) > 0 {
		fmt.Fprintln(t.out, mutedStyle.Render("Bilder unverändert, Bildnotizen aus dem Cache."))
	}
	return nil
}

func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (t *terminal) editListing() error {
	d := t.sess.State().Draft
	title, desc := d.Title, d.Description
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("TITEL").
				Description(fmt.Sprintf("höchstens %d Zeichen", generator.TitleLimit)).
				Value(&title),
			huh.NewText().
				Title("BESCHREIBUNG").
				Lines(12).
				CharLimit(0).
				Value(&desc),
		),
	).Run()
	if err != nil {
		return err
	}
	t.sess.EditListing(title, desc)
	return nil
}

func (t *terminal) copy() error {
	kind := string(publisher.CopyTitle)
	opts := make([]huh.Option[string], 0, len(publisher.CopyKinds))
	for _, k := range publisher.CopyKinds {
		opts = append(opts, huh.NewOption(copyLabel(k), string(k)))
	}
	if err := huh.NewSelect[string]().Title("Kopieren").Options(opts...).Value(&kind).Run(); err != nil {
		return err
	}
	d := t.sess.State().Draft
	if err := t.pub.CopyToClipboard(publisher.CopyKind(kind), d.Title, d.Description); err != nil {
		return err
	}
	fmt.Fprintln(t.out, okStyle.Render("Kopiert: "+copyLabel(publisher.CopyKind(kind))))
	return nil
}

func copyLabel(k publisher.CopyKind) string {
	switch k {
	case publisher.CopyTitle:
		return "Titel"
	case publisher.CopyBoth:
		return "Titel + Beschreibung"
	case publisher.CopyDescription:
		return "Beschreibung"
	case publisher.CopyTemplate:
		return "eBay-HTML"
	}
	return string(k)
}

func (t *terminal) export() error {
	path := "listing.html"
	if err := huh.NewInput().Title("Datei").Value(&path).Run(); err != nil {
		return err
	}
	d := t.sess.State().Draft
	if err := os.WriteFile(path, []byte(t.pub.Export(d.Title, d.Description)), 0o644); err != nil {
		return err
	}
	logger.Info("export written", zap.String("path", path))
	fmt.Fprintln(t.out, okStyle.Render("Gespeichert: "+path))
	return nil
}

func (t *terminal) printSummary(st generator.State) {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("SOURCE") + "  " + preview(st.Fields.Source, 60) + "\n")
	notes := "(keine)"
	if st.ImageNotes.Notes != "" {
		notes = fmt.Sprintf("%d Zeilen", strings.Count(st.ImageNotes.Notes, "\n")+1)
	}
	sb.WriteString(headerStyle.Render("BILDER") + "  " + mutedStyle.Render(notes) + "\n")
	if st.CanCheck {
		sb.WriteString(headerStyle.Render("TITEL") + "   " + st.Draft.Title + "  " + titleBadge(st.Draft.Title) + "\n")
		sb.WriteString(headerStyle.Render("TEXT") + "    " + preview(st.Draft.Description, 60) + "\n")
	}
	if st.Status != "" && st.Status != generator.ParseOK {
		sb.WriteString(overStyle.Render("Antwort unvollständig: "+string(st.Status)) + "\n")
	}
	fmt.Fprintln(t.out, boxStyle.Render(strings.TrimRight(sb.String(), "\n")))
}
