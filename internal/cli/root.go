// Package cli implements the pizzagpt command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teilomillet/pizzagpt"
	"github.com/teilomillet/pizzagpt/config"
)

// Version information (set by build flags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Execute runs the command line until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pizzagpt",
		Short: "Ask questions to the PizzaGPT API",
		Long: `pizzagpt - command line client for the PizzaGPT conversational API

Every question is sent as a single request over a pooled HTTPS connection.
Settings come from an optional YAML file; flags override the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to YAML configuration file")
	flags.StringP("environment", "e", "", "Deployment to use (production, staging, development)")
	flags.String("base-url", "", "Base URL overriding the environment (e.g., http://localhost:3000)")
	flags.Duration("timeout", 0, "Request timeout (e.g., 10s)")
	flags.StringArrayP("header", "H", nil, "Extra header (repeatable, e.g., -H 'X-Custom: value')")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newAskCmd(), newChatCmd(), newValidateCmd(), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pizzagpt %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// loadConfig reads --config when given, then applies the flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overlays explicitly set flags on cfg and validates the result.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("environment") {
		env, _ := flags.GetString("environment")
		cfg.Environment = config.Environment(env)
	}
	if flags.Changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	rawHeaders, _ := flags.GetStringArray("header")
	for _, raw := range rawHeaders {
		key, value, err := parseHeader(raw)
		if err != nil {
			return err
		}
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		cfg.Headers[key] = value
	}

	return cfg.Validate()
}

func parseHeader(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, ":")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid header %q (expected 'Name: value')", raw)
	}
	return key, strings.TrimSpace(value), nil
}

// setup loads the configuration and builds the logger every command shares.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	logger, err := cfg.Logging.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

func newService(cfg *config.Config, logger *zap.Logger) (*pizzagpt.Service, error) {
	return pizzagpt.New(pizzagpt.WithConfig(cfg), pizzagpt.WithLogger(logger))
}
