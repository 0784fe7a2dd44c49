package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"listing_tool/generator"
	"listing_tool/publisher"
)

var (
	genSource   string
	genImages   []string
	genVariants string
	genNotes    string
	genUpdate   string
	genCheck    bool
	genOutput   string
	genCopy     string
	genExport   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one listing without the form",
	Long: `Generate a German listing from a source text file and optional photos.

  listing generate --source ring.txt --image front.jpg --image stamp.jpg
  cat ring.txt | listing generate --source - --output yaml > ring.yaml

--update runs a second, minimal revision of the generated draft with the given notes.
--check appends a quality report; the listing itself is not changed by it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if genSource == "" {
			return errors.New("--source is required (use - for stdin)")
		}
		if genCopy != "" {
			if _, err := (publisher.Payloads{}).Get(publisher.CopyKind(genCopy)); err != nil {
				return err
			}
		}
		source, err := readSource(genSource, cmd.InOrStdin())
		if err != nil {
			return err
		}
		images, err := loadImages(genImages)
		if err != nil {
			return err
		}

		agent, err := buildAgent(cfg)
		if err != nil {
			return err
		}
		pub := buildPublisher(cfg)
		ctx := cmd.Context()

		sess := generator.NewSession(uuid.NewString(), agent)
		fields := generator.Fields{Source: source, VariantsNote: genVariants, UpdateNotes: genNotes}
		sess.SetFields(fields)

		if _, err := sess.AttachImages(ctx, images); err != nil {
			return fmt.Errorf("analyse images: %w", err)
		}
		out, err := sess.Generate(ctx)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		fixed := out.TitleFixed
		if genUpdate != "" {
			fields.UpdateNotes = genUpdate
			sess.SetFields(fields)
			out, err = sess.ApplyUpdates(ctx)
			if err != nil {
				return fmt.Errorf("update: %w", err)
			}
			fixed = fixed || out.TitleFixed
		}
		if genCheck {
			if _, err := sess.QualityCheck(ctx); err != nil {
				return fmt.Errorf("quality check: %w", err)
			}
		}

		st := sess.State()
		if !st.TitleOK {
			logger.Warn("title still exceeds the limit", zap.Int("length", st.TitleLength))
		}
		if err := writeListing(cmd.OutOrStdout(), genOutput, listingFromState(st, fixed)); err != nil {
			return err
		}
		if genExport != "" {
			html := pub.Export(st.Draft.Title, st.Draft.Description)
			if err := os.WriteFile(genExport, []byte(html), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			logger.Info("export written", zap.String("path", genExport))
		}
		if genCopy != "" {
			if err := pub.CopyToClipboard(publisher.CopyKind(genCopy), st.Draft.Title, st.Draft.Description); err != nil {
				return err
			}
			logger.Info("copied to clipboard", zap.String("kind", genCopy))
		}
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genSource, "source", "s", "", "source text file, - for stdin")
	f.StringSliceVarP(&genImages, "image", "i", nil, "product photo (repeatable)")
	f.StringVar(&genVariants, "variants", "", "variants note")
	f.StringVar(&genNotes, "notes", "", "update notes considered by the first draft")
	f.StringVar(&genUpdate, "update", "", "revise the generated draft with these notes")
	f.BoolVar(&genCheck, "check", false, "run the quality check")
	f.StringVarP(&genOutput, "output", "o", "text", "output format: text, json or yaml")
	f.StringVar(&genCopy, "copy", "", "copy to clipboard: title, both, description or template")
	f.StringVar(&genExport, "export", "", "write the marketplace HTML to this file")
	rootCmd.AddCommand(generateCmd)
}
