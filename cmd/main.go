package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	service "github.com/okian/appprofiles/internal/app"
	"github.com/okian/appprofiles/internal/config"
	"github.com/okian/appprofiles/internal/report"
	"github.com/okian/appprofiles/pkg/logger"
	"github.com/okian/appprofiles/pkg/metrics"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := logger.Init(); err != nil {
		// Use stderr directly since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return exitFailure
	}
	loggerInstance := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		loggerInstance.Error(ctx, "failed to load config", logger.Error(err))
		return exitFailure
	}

	if cfg.LogFormat != "text" {
		if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
			loggerInstance.Error(ctx, "failed to switch log format", logger.String("log_format", cfg.LogFormat), logger.Error(err))
			return exitFailure
		}
		loggerInstance = logger.Get()
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	m := metrics.Default()
	svc := service.New(
		service.WithLogger(loggerInstance),
		service.WithMetrics(m),
		service.WithApplePath(cfg.ApplePath()),
		service.WithGooglePath(cfg.GooglePath()),
		service.WithMaxNonASCII(cfg.MaxNonASCII),
		service.WithInspectKey(cfg.InspectApp),
		service.WithComma(cfg.Comma()),
	)

	rep, err := svc.Run(ctx)
	writeMetrics(ctx, loggerInstance, m, cfg.MetricsFile)
	if err != nil {
		loggerInstance.Error(ctx, "analysis failed", logger.Error(err))
		return exitFailure
	}

	if err := report.NewPrinter(report.WithTopN(cfg.TopN), report.WithLanguage(cfg.Language())).Write(os.Stdout, rep); err != nil {
		loggerInstance.Error(ctx, "failed to print report", logger.Error(err))
		return exitFailure
	}
	return exitOK
}

// writeMetrics dumps the run's metrics when a textfile path is configured.
func writeMetrics(ctx context.Context, l logger.Logger, m *metrics.Manager, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		l.Warn(ctx, "failed to write metrics textfile", logger.String("path", path), logger.Error(err))
		return
	}
	l.Debug(ctx, "metrics written", logger.String("path", path))
}
