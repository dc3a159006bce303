package agentic

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	commerce "github.com/patilgayatri22/agentic-ecommerce"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/config"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/logger"
	"github.com/patilgayatri22/agentic-ecommerce/pkg/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the recommendation HTTP server",
	Long: `Start the HTTP server exposing the recommendation pipeline.

Endpoints:
- POST /api/v1/recommend  ranked recommendations for a query
- POST /api/v1/search     raw candidate products without scoring
- GET  /health, /ready, /live

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Provider flags
	serverCmd.Flags().String("provider-driver", "mock", "Product data driver (mock, live)")
	serverCmd.Flags().Int("top-k", 0, "Default number of recommendations per request")
	serverCmd.Flags().Float64("mmr-lambda", 0, "Relevance/diversity balance in (0,1]")

	// Cache flags
	serverCmd.Flags().Bool("cache", false, "Enable the offer/review cache")
	serverCmd.Flags().String("cache-dir", "", "Cache directory")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Directory for request telemetry parquet files")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewDefaultLogger(logger.ParseLevel(cfg.Log.Level))
	client, err := commerce.NewFromConfig(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	defer client.Close()

	srv := server.New(cfg, client, log)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

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
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	if cmd.Flags().Changed("provider-driver") {
		cfg.Providers.Driver, _ = cmd.Flags().GetString("provider-driver")
	}
	if cmd.Flags().Changed("top-k") {
		cfg.Scoring.TopK, _ = cmd.Flags().GetInt("top-k")
	}
	if cmd.Flags().Changed("mmr-lambda") {
		cfg.Scoring.MMRLambda, _ = cmd.Flags().GetFloat64("mmr-lambda")
	}

	if cmd.Flags().Changed("cache") {
		cfg.Cache.Enabled, _ = cmd.Flags().GetBool("cache")
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.Cache.Dir, _ = cmd.Flags().GetString("cache-dir")
	}

	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Scoring.MMRLambda < 0 || cfg.Scoring.MMRLambda > 1 {
		return fmt.Errorf("invalid mmr-lambda: %v", cfg.Scoring.MMRLambda)
	}
	return nil
}
