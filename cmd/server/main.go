package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"coinchat-backend/internal/config"
	"coinchat-backend/internal/handlers"
)

var (
	// Global flags
	verbose   bool
	port      string
	transport string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coinchat",
	Short: "CoinChat backend - chat endpoint returning structured action envelopes",
	Long: `Serves the chat API used by the coin launcher frontend.

Each chat message is sent once to Gemini and the reply is normalized into an
action envelope (normal, create-coin or token-research) the frontend can act on.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		applyFlags(cfg)

		logCfg := zap.NewProductionConfig()
		if cfg.IsDevelopment() {
			logCfg = zap.NewDevelopmentConfig()
		}
		if verbose {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the service version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", handlers.ServiceName, handlers.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "", "Gemini transport: rest or sdk (overrides GEMINI_TRANSPORT)")

	rootCmd.AddCommand(serveCmd, versionCmd)
}

// applyFlags lets command line flags win over the environment.
func applyFlags(cfg *config.Config) {
	if port != "" {
		cfg.Port = port
	}
	if transport != "" {
		cfg.GeminiTransport = transport
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
