package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"refurrm/internal/config"
	"refurrm/internal/logging"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	configPath string
	workspace  string

	// Loaded configuration
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "refurrm",
	Short: "ReFurrm - AI-assisted resale appraisal and fulfillment",
	Long: `ReFurrm values secondhand items with an AI appraiser, screens them
for counterfeits, checks UPC deals against vendor pricing, and matches
listings with local fulfillment ambassadors.

Run 'refurrm serve' to start the HTTP API, or use the one-shot
commands (verify, scout, upc, match) from the terminal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides config and GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "refurrm.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", ".", "workspace directory for logs and data")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(scoutCmd)
	rootCmd.AddCommand(upcCmd)
	rootCmd.AddCommand(matchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
