// Command catalogctl browses the product catalog and talks to the assistant
// from a terminal, sharing the server's configuration and transcript snapshot.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/app"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/config"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/logger"
)

var (
	verbose bool
	width   int
	style   string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Terminal client for the Adeslas product assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&width, "width", 100, "Wrap width for rendered output")
	rootCmd.PersistentFlags().StringVar(&style, "style", "", "Markdown style (dark, light, notty); empty detects the terminal")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 3*time.Minute, "Operation timeout")

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(clearCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// boot loads configuration the same way the API server does and builds the session.
func boot(ctx context.Context) (*app.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	zl, err := logger.New(logger.Options{Level: level, FilePath: cfg.Log.File})
	if err != nil {
		return nil, err
	}

	return app.New(ctx, cfg, zl)
}
