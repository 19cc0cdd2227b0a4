package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/auth"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/config"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/formbuilder"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/handler"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/logging"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/router"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/session"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "oxiadmin",
	Short:         "Admin dashboard for the content backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(serveCmd, loginCmd, logoutCmd, formsCmd, employeesCmd, companiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads config and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, done, err := logging.New(level, cfg.GelfAddr)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, done, nil
}

func openStore(cfg *config.Config) (*session.SQLiteStore, error) {
	sealer, err := session.NewSealer(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	return session.OpenSQLite(cfg.StateDB, sealer)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, done, err := setup()
	if err != nil {
		return err
	}
	defer done()
	if cfg.DevSecret() {
		logger.Warn("using the built-in development session secret; set OXIADMIN_SESSION_SECRET")
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer store.Close()

	workspaces := service.NewWorkspaces(service.WorkspaceConfig{
		BaseURL:        cfg.APIBaseURL,
		Store:          store,
		RequestTimeout: cfg.RequestTimeout,
		RefetchPolicy:  formbuilder.ParseRefetchPolicy(cfg.RefetchPolicy),
		UploadMaxBytes: cfg.UploadMaxBytes,
		Logger:         logger,
	}, cfg.WorkspaceIdleTTL, time.Minute)
	defer workspaces.Close()

	authSvc := service.NewAuthService(workspaces, logger)
	cookies := auth.Cookies{Secret: cfg.SessionSecret, TTL: cfg.WorkspaceIdleTTL, Secure: cfg.CookieSecure}
	base := handler.NewBase(authSvc, cookies, logger)
	r := router.New(logger, cfg.SessionSecret, workspaces, router.NewHandlers(base, authSvc, workspaces))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("OxiAdmin server starting",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("api", cfg.APIBaseURL))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
