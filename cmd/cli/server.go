package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"minibank.dev/internal/application/usecase"
	"minibank.dev/internal/domain/entity"
	"minibank.dev/internal/infrastructure/config"
	httphandler "minibank.dev/internal/infrastructure/http"
	"minibank.dev/internal/infrastructure/logger"
	"minibank.dev/internal/infrastructure/repository"

	"github.com/spf13/cobra"
)

const serverDir = "server"

var apiServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Run API Server.",
	RunE: func(_ *cobra.Command, _ []string) error {
		// Get config directory (relative to where the binary is run from)
		configDir := filepath.Join("cmd", "config", serverDir)
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			// Try absolute path from project root
			configDir = filepath.Join(".", "cmd", "config", serverDir)
		}

		// Load configuration
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Initialize logger at the configured level
		appLogger := logger.NewLogger(cfg.Logging.Level)

		appLogger.LogInfo(context.TODO(), "Configuration loaded",
			"port", cfg.Server.Port,
			"seed_accounts", len(cfg.Accounts))

		// Seed the ledger; accounts exist for the lifetime of the process
		seeds := make([]entity.Account, 0, len(cfg.Accounts))
		for _, a := range cfg.Accounts {
			seeds = append(seeds, entity.Account{
				Number:        a.Number,
				Holder:        a.Holder,
				Balance:       a.Balance,
				MobileBalance: a.MobileBalance,
			})
		}
		ledger := repository.NewInMemoryLedger(appLogger, seeds...)

		// Initialize use case and HTTP handler
		dispatchUseCase := usecase.NewDispatchUseCase(ledger)
		handler := httphandler.NewHandler(dispatchUseCase, appLogger)

		// Setup routes
		mux := handler.SetupRoutes()

		// Create HTTP server
		addr := ":" + cfg.Server.Port
		server := &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Channel to capture termination signals
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		// Error channel to capture errors from server
		errChan := make(chan error, 1)

		// Start server in a goroutine
		go func() {
			appLogger.LogInfo(context.TODO(), "Starting server", "address", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Graceful shutdown
		select {
		case <-signalChan:
			appLogger.LogInfo(context.TODO(), "Received termination signal. Initiating graceful shutdown...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				appLogger.LogError(context.TODO(), "Server forced to shutdown", err)
				return err
			}

			appLogger.LogInfo(context.TODO(), "Server stopped gracefully")
		case err := <-errChan:
			appLogger.LogError(context.TODO(), "Server error", err)
			return err
		}

		return nil
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(apiServerCmd)
}
