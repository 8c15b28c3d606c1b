package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/infitab/infitab/internal/backend"
	"github.com/infitab/infitab/internal/config"
	"github.com/infitab/infitab/internal/config/data"
	"github.com/infitab/infitab/internal/dao"
	"github.com/infitab/infitab/internal/logging"
	"github.com/infitab/infitab/internal/view"
)

const appName = "infitab"

var (
	appVersion = "0.1.0"

	infitabFlags *data.Flags
	headless     bool
	rootCmd      = &cobra.Command{
		Use:   appName,
		Short: "A terminal table over a paginated REST backend",
		Long:  `infitab shows the rows of a REST table backend and loads more pages as you scroll.`,
		RunE:  run,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
)

func init() {
	infitabFlags = config.NewFlags()
	initInfitabFlags()
	rootCmd.AddCommand(versionCmd)
}

func initInfitabFlags() {
	rootCmd.Flags().StringVarP(infitabFlags.URL, "url", "u", "", "Backend base URL (default "+config.DefaultBaseURL+")")
	rootCmd.Flags().StringVarP(infitabFlags.Timeout, "timeout", "t", "", "Per request timeout (default "+config.DefaultAPITimeout.String()+")")
	rootCmd.Flags().StringVarP(infitabFlags.LogLevel, "logLevel", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(infitabFlags.LogFile, "logFile", "", "Log file path")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Print the table to stdout instead of running the TUI")
	rootCmd.Flags().IntVarP(infitabFlags.Pages, "pages", "p", config.DefaultPages, "Pages to print in headless mode, 0 for all")
	rootCmd.Flags().StringVar(infitabFlags.Metrics, "metrics", "", "Serve Prometheus metrics on this address, e.g. :9100")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Initialize locations
	if err := config.InitLocs(); err != nil {
		return fmt.Errorf("failed to initialize locations: %w", err)
	}

	// 2. Load configuration and apply CLI overrides
	if cmd.Flags().Changed("headless") {
		infitabFlags.Headless = &headless
	}
	cfg := config.NewConfig()
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(infitabFlags); err != nil {
		return fmt.Errorf("failed to refine configuration: %w", err)
	}
	_ = cfg.Save(config.AppConfigFile, false)

	// 3. Route logs away from the screen
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	// 4. Metrics
	if addr := *infitabFlags.Metrics; addr != "" {
		go serveMetrics(addr)
	}

	// 5. Backend client
	timeout, err := cfg.Infitab.GetAPITimeout()
	if err != nil {
		return err
	}
	client, err := backend.NewClient(backend.Config{
		BaseURL:   cfg.Infitab.GetBaseURL(),
		Timeout:   timeout,
		UserAgent: appName + "/" + appVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}
	factory := dao.NewFactory(client)

	if cfg.Infitab.IsHeadless() {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		return dump(ctx, os.Stdout, factory.Backend(), *infitabFlags.Pages, cfg.Infitab.GetSkeletonRows())
	}

	// 6. Create and run the TUI application
	app := view.NewApp(cfg, appVersion)
	app.SetFactory(factory)
	if err := app.Init(); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run()
}

func setupLogging(cfg *config.Config) (func(), error) {
	level := logging.LogLevel(cfg.Infitab.Logger.Level)
	if cfg.Infitab.IsHeadless() {
		logging.Setup(logging.Config{Level: level, Pretty: cfg.Infitab.Logger.Pretty, Output: os.Stderr})
		return func() {}, nil
	}

	path := *infitabFlags.LogFile
	if path == "" {
		path = config.AppLogFile
	}
	if err := config.InitLogLoc(path); err != nil {
		return nil, fmt.Errorf("failed to initialize log location: %w", err)
	}
	f, err := logging.SetupFile(path, level)
	if err != nil {
		return nil, err
	}

	return func() { _ = f.Close() }, nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger := logging.NewLogger("metrics")
	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
