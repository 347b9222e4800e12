package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/gymteams/internal/adapters/http/api"
	"github.com/okian/gymteams/internal/adapters/http/swagger"
	"github.com/okian/gymteams/internal/adapters/sheet"
	service "github.com/okian/gymteams/internal/app"
	"github.com/okian/gymteams/internal/config"
	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/pkg/logger"
	"github.com/okian/gymteams/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

type rootOptions struct {
	configPath string
	reloadDir  string
	top        int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "gymteams",
		Short:         "Score every five-athlete team and report the best lineups",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv(config.FileEnv), "YAML config file (env "+config.FileEnv+")")
	root.PersistentFlags().StringVar(&opts.reloadDir, "reload", "", "rebuild results from tables exported to this directory instead of enumerating")
	root.AddCommand(newComputeCmd(opts), newServeCmd(opts))
	return root
}

func newComputeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Score all bases, write team tables and print the top teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := setup(ctx, opts.configPath)
			if err != nil {
				return err
			}
			svc, err := compute(ctx, cfg, opts.reloadDir)
			if err != nil {
				return err
			}
			k := opts.top
			if k < 1 {
				k = cfg.TopK
			}
			bases, err := parseBases(cfg.Bases)
			if err != nil {
				return err
			}
			for _, b := range bases {
				if err := printTopTeams(ctx, cmd.OutOrStdout(), svc, b, k); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.top, "top", 0, "number of teams printed per basis (default top_k)")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Compute results and expose them over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := setup(ctx, opts.configPath)
			if err != nil {
				return err
			}
			svc, err := compute(ctx, cfg, opts.reloadDir)
			if err != nil {
				return err
			}
			return serve(ctx, cfg, svc)
		},
	}
}

// setup loads configuration and initializes logging from it.
func setup(ctx context.Context, configPath string) (*config.Config, error) {
	cfg, err := config.LoadFile(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.InitWithWriter(os.Stderr, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// newService builds a Service from configuration.
func newService(cfg *config.Config) (*service.Service, error) {
	bases, err := parseBases(cfg.Bases)
	if err != nil {
		return nil, err
	}
	return service.New(
		service.WithLogger(logger.Default()),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithBases(bases...),
		service.WithStrictJoin(cfg.StrictJoin),
		service.WithScoreRange(cfg.ScoreMin, cfg.ScoreMax),
		service.WithOutput(cfg.OutputDir, cfg.OutputFormat),
	), nil
}

// compute reads both days and runs the pipeline under the configured
// deadline. With reloadDir set, exported tables replace enumeration.
func compute(ctx context.Context, cfg *config.Config, reloadDir string) (*service.Service, error) {
	day1, day2, err := readDays(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := newService(cfg)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ComputeTimeoutSeconds)*time.Second)
	defer cancel()
	if reloadDir != "" {
		err = svc.Reload(runCtx, day1, day2, reloadDir)
	} else {
		err = svc.Run(runCtx, day1, day2)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// readDays reads both competition days from the workbook when one is
// configured, otherwise from the two CSV files.
func readDays(cfg *config.Config) ([]model.DayResult, []model.DayResult, error) {
	if cfg.WorkbookPath != "" {
		return sheet.ReadWorkbook(cfg.WorkbookPath, cfg.Day1Sheet, cfg.Day2Sheet)
	}
	day1, err := sheet.ReadDayFile(cfg.Day1Path, model.Day1.String())
	if err != nil {
		return nil, nil, err
	}
	day2, err := sheet.ReadDayFile(cfg.Day2Path, model.Day2.String())
	if err != nil {
		return nil, nil, err
	}
	return day1, day2, nil
}

func parseBases(names []string) ([]model.Basis, error) {
	bases := make([]model.Basis, 0, len(names))
	for _, n := range names {
		b, err := model.ParseBasis(n)
		if err != nil {
			return nil, err
		}
		bases = append(bases, b)
	}
	return bases, nil
}

// printTopTeams writes the top-k table of one basis with its
// substitution notes.
func printTopTeams(ctx context.Context, w io.Writer, svc *service.Service, b model.Basis, k int) error {
	rows, notes, err := svc.TopTeams(ctx, b, k)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", b.SheetName())
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTEAM\tSCORE\tGAP\tMEMBERS")
	for _, row := range rows {
		gap := "-"
		if row.Gap < 0 {
			gap = fmt.Sprintf("%.2f", row.Gap)
		}
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%s\t%s\n", row.Rank, row.TeamID, row.Score, gap, strings.Join(row.Members, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, n := range notes {
		fmt.Fprintln(w, n)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// serve exposes the computed results until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, svc *service.Service) error {
	log := logger.Default()

	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.TopK, cfg.MaxTopK).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater refreshes system metrics at the metrics refresh
// interval until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
