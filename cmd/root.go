package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"listing_tool/config"
	"listing_tool/generator"
	"listing_tool/logging"
	"listing_tool/publisher"
)

var version = "0.1.0"

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "listing",
	Short: "German marketplace listing generator",
	Long: `Turns raw product text and photos into a German marketplace listing
(title of at most 80 characters plus description) using a chat model.

Use "listing serve" for the web form or "listing interactive" for the terminal form.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./listing.yaml or ~/.config/listing-tool/listing.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildLLM picks the completion client for the configured provider.
func buildLLM(c *config.Config) (generator.LLMClient, error) {
	switch c.LLM.Provider {
	case config.ProviderOpenRouter, config.ProviderOpenAI:
		settings := c.LLMSettings()
		llm, err := generator.NewOpenAILLMFromConfig(&settings)
		if err != nil {
			return nil, err
		}
		if !llm.HasCredential() {
			logger.Warn("no API key configured; remote actions will fail until OPENROUTER_API_KEY is set")
		}
		return llm, nil
	case config.ProviderMock:
		logger.Warn("using mock llm provider; output is not model generated")
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
}

func buildAgent(c *config.Config) (*generator.Agent, error) {
	llm, err := buildLLM(c)
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm,
		generator.WithModels(c.LLM.ModelText, c.LLM.ModelVision),
		generator.WithLogger(logger),
	)
}

func buildPublisher(c *config.Config) *publisher.Publisher {
	return publisher.New(c.Brand())
}
