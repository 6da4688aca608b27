package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/babel/internal/cli"
	"codeberg.org/snonux/babel/internal/config"
	"codeberg.org/snonux/babel/internal/logger"
	"codeberg.org/snonux/babel/internal/metrics"
	"codeberg.org/snonux/babel/internal/models"
	"codeberg.org/snonux/babel/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	cfg := config.FromViper(viper.GetViper())
	cfg.Backend.OpenAIKey = cli.GetOpenAIKey()
	cfg.Backend.GeminiKey = cli.GetGeminiKey()

	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Handle --list-languages flag
	if flags.ListLanguages {
		processor.PrintLanguages(cmd.OutOrStdout())
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cfg.Backend.OpenAIKey, cfg.Backend.OpenAIBaseURL)
		return lister.ListAvailableModels(ctx, cmd.OutOrStdout())
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Log.Error("Metrics server stopped", "error", err)
			}
		}()
	}

	// Create processor
	proc, err := processor.NewProcessor(cfg)
	if err != nil {
		return err
	}

	switch {
	case flags.Combine:
		return proc.Combine(ctx)
	case flags.BatchFile != "":
		return proc.ProcessBatch(ctx, flags.BatchFile, flags.OutFile, flags.To)
	case len(args) > 0:
		return proc.TranslateText(ctx, args[0], flags.To)
	default:
		// No input provided - launch GUI mode by default
		if err := proc.RunGUIMode(flags.To); err != nil {
			return fmt.Errorf("GUI failed: %w", err)
		}
		return nil
	}
}
