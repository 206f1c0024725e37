package gcpkit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coastwise/gcpkit"
	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/gen"
	"github.com/coastwise/gcpkit/pkg/logger"
	"github.com/coastwise/gcpkit/pkg/nlp"
	"github.com/coastwise/gcpkit/pkg/server"
	"github.com/coastwise/gcpkit/pkg/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gcpkit HTTP server",
	Long: `Start the gcpkit HTTP server.

The server provides endpoints for:
- Embedding single texts and batches
- Sentiment analysis
- Text summarization
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
	serveMode string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Server host")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Server port")
	serveCmd.Flags().StringVar(&serveMode, "mode", "debug", "Server mode (debug, release, test)")

	serveCmd.Flags().String("embedding-provider", "", "Embedding provider (vertex, openai)")
	serveCmd.Flags().String("embedding-model", "", "Embedding model")
	serveCmd.Flags().String("embedding-api-key", "", "Embedding API key (openai provider)")
	serveCmd.Flags().String("embedding-base-url", "", "Embedding base URL (openai provider)")
	serveCmd.Flags().String("embedding-cache", "", "Path to a local embedding cache")

	serveCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry (warn and error records)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideServeFlags(cmd, cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	log, flush, err := newServerLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	ctx := context.Background()

	embedder, err := gcpkit.NewEmbeddingClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize embedding client: %w", err)
	}
	defer embedder.Close()
	log.Info("embedding client ready", "provider", cfg.Embedding.Provider, "dim", embedder.Dim())

	var language *nlp.Client
	if lc, err := nlp.New(ctx); err != nil {
		log.Warn("sentiment analysis disabled", "error", err)
	} else {
		language = lc
		defer language.Close()
	}

	var summarizer *gen.Summarizer
	if cfg.Summary.APIKey != "" {
		summarizer = gen.NewSummarizer(cfg.Summary)
	}

	srv := server.New(cfg, embedder, language, summarizer, log)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	}
}

// newServerLogger builds the server logger, mirroring warn+ records to
// Parquet when a telemetry path is configured. The returned flush function
// writes out any buffered telemetry.
func newServerLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	base := logger.New(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	if cfg.Telemetry.ParquetPath == "" {
		return base, func() {}, nil
	}

	handler, err := telemetry.NewParquetHandler(base.Handler(), cfg.Telemetry.ParquetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	flush := func() {
		if err := handler.Flush(); err != nil {
			fmt.Fprintln(os.Stderr, "Warning: failed to flush telemetry:", err)
		}
	}
	return slog.New(handler), flush, nil
}

func overrideServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serveMode
	}

	if cmd.Flags().Changed("embedding-provider") {
		cfg.Embedding.Provider, _ = cmd.Flags().GetString("embedding-provider")
	}
	if cmd.Flags().Changed("embedding-model") {
		cfg.Embedding.Model, _ = cmd.Flags().GetString("embedding-model")
	}
	if cmd.Flags().Changed("embedding-api-key") {
		cfg.Embedding.APIKey, _ = cmd.Flags().GetString("embedding-api-key")
	}
	if cmd.Flags().Changed("embedding-base-url") {
		cfg.Embedding.BaseURL, _ = cmd.Flags().GetString("embedding-base-url")
	}
	if cmd.Flags().Changed("embedding-cache") {
		cfg.Embedding.CachePath, _ = cmd.Flags().GetString("embedding-cache")
	}

	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
