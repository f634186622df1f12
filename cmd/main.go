package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang-klarna-payments/config"
	"golang-klarna-payments/internal/server"
	"golang-klarna-payments/internal/services/payments/providers"

	"github.com/spf13/cobra"
)

var envFile string

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "klarna-demo",
		Short:             "Klarna Payments demo backend",
		Long:              "Merchant backend for the Klarna Payments demo.\n\n" + config.Description(),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE:              runServe,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
	rootCmd.AddCommand(newOrderCmd())

	return rootCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.Klarna.HasCredentials() {
		slog.Warn("Klarna credentials not configured, provider calls will fail")
	}

	provider := newProvider(cfg)
	srv := server.New(cfg.Http, provider, slog.Default())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func newProvider(cfg *config.AppConfig) *providers.KlarnaProvider {
	return providers.NewKlarnaProvider(cfg.Klarna.APIURL, cfg.Klarna.Username, cfg.Klarna.Password, cfg.Klarna.Timeout)
}
