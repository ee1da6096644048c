package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kaiwa-ai/kaiwa/internal/config"
	"github.com/kaiwa-ai/kaiwa/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "kaiwa [prompt]",
	Short: "Kaiwa conversational agent",
	Long: `Kaiwa is a conversational agent for the terminal: it talks to an
OpenAI-compatible chat API, runs local tools on the model's behalf, and
asks for confirmation before any dangerous action.

With a prompt argument it answers once and exits; without one it starts
an interactive session.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Log.Level)
		return cfg.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return runSinglePrompt(cfg, strings.Join(args, " "))
		}
		return runInteractive(cfg)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kaiwa/config.yaml)")
	rootCmd.PersistentFlags().StringP("api-key", "k", "", "API key (falls back to $OPENAI_API_KEY)")
	rootCmd.PersistentFlags().StringP("base-url", "b", "", "API base URL (falls back to $OPENAI_BASE_URL)")
	rootCmd.PersistentFlags().StringP("model", "m", config.DefaultModel, "model name")
	rootCmd.PersistentFlags().Float32P("temperature", "t", config.DefaultTemperature, "sampling temperature")
	rootCmd.PersistentFlags().Float32P("top-p", "p", config.DefaultTopP, "nucleus sampling parameter")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("max-rounds", config.DefaultMaxRounds, "maximum tool-call rounds per task")
}
