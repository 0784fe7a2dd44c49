package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportTitle       string
	exportDescription string
	exportOut         string
)

var exportCmd = &cobra.Command{
	Use:   "export [listing.yaml|listing.json]",
	Short: "Render a listing into the marketplace HTML template",
	Long: `Render a listing saved with "generate --output yaml" (or json) into the
marketplace HTML template. --title and --description override the file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var l listing
		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read listing: %w", err)
			}
			if l, err = readListing(data); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("title") {
			l.Title = exportTitle
		}
		if cmd.Flags().Changed("description") {
			l.Description = exportDescription
		}
		if l.Title == "" && l.Description == "" {
			return errors.New("nothing to export: pass a listing file or --title/--description")
		}

		html := buildPublisher(cfg).Export(l.Title, l.Description)
		if exportOut == "" || exportOut == "-" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), html)
			return err
		}
		return os.WriteFile(exportOut, []byte(html), 0o644)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "listing title")
	exportCmd.Flags().StringVar(&exportDescription, "description", "", "listing description")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
