package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"calorie-log/internal/cal"
	"calorie-log/internal/config"
	"calorie-log/internal/encryption"
	"calorie-log/internal/estimator"
	"calorie-log/internal/rowlog"
	"calorie-log/internal/webhook"
)

const shutdownTimeout = 90 * time.Second

// Options select what NewCalApp wires up.
type Options struct {
	// Scope tags every log line, usually the CLI command name.
	Scope string
	// Estimator is needed only by commands that log or edit entries.
	Estimator bool
}

// CalApp is the application layer between the CLI and the cal package.
// It constructs all dependencies from config and owns their lifecycle.
// The caller must call Close when done.
type CalApp struct {
	cfg     *config.Config
	rows    cal.RowLog
	store   *cal.EntryStore
	handler *cal.Handler
	logger  cal.Logger
	logFile *os.File
}

// NewCalApp creates a fully wired CalApp from the given config.
func NewCalApp(ctx context.Context, cfg *config.Config, opts Options) (*CalApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.TimeZone, err)
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	slogger, logFile, err := newLogger(cfg.LogDir, opts.Scope, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	fail := func(err error) (*CalApp, error) {
		logFile.Close()
		return nil, err
	}

	codec, err := encryption.NewCodecFromConfig(cfg.Encryption)
	if err != nil {
		return fail(fmt.Errorf("creating codec: %w", err))
	}

	rows, err := rowlog.NewRowLogFromConfig(ctx, cfg.RowLog, codec)
	if err != nil {
		return fail(fmt.Errorf("creating row log: %w", err))
	}

	var est cal.Estimator
	if opts.Estimator {
		est, err = estimator.NewEstimatorFromConfig(cfg.Estimator, logger)
		if err != nil {
			rows.Close()
			return fail(fmt.Errorf("creating estimator: %w", err))
		}
	}

	store := cal.NewEntryStore(rows, cal.RealClock{}, loc, logger)
	logger.Debug("app ready", "row_log", cfg.RowLog.Type, "timezone", cfg.TimeZone)

	return &CalApp{
		cfg:     cfg,
		rows:    rows,
		store:   store,
		handler: cal.NewHandler(store, est, cfg.DailyTarget, logger),
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Send handles one message exactly as the webhook would and returns the reply.
func (a *CalApp) Send(ctx context.Context, text string) string {
	ctx = cal.WithRequestID(ctx, cal.UUIDGenerator{}.New())
	return a.handler.Handle(ctx, text)
}

// Today returns today's summary reply.
func (a *CalApp) Today(ctx context.Context) (string, error) {
	return a.handler.Run(ctx, cal.SummaryCommand{})
}

// Recalculate rewrites today's running totals and returns the daily total.
func (a *CalApp) Recalculate(ctx context.Context) (int, error) {
	return a.store.Recalculate(ctx)
}

// Serve runs the webhook until ctx is cancelled.
func (a *CalApp) Serve(ctx context.Context) error {
	srv := webhook.NewServer(a.handler, a.cfg.Server.Path, cal.UUIDGenerator{}, a.logger)
	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	return srv.Run(ctx, addr, shutdownTimeout)
}

// Logger returns the app's logger.
func (a *CalApp) Logger() cal.Logger {
	return a.logger
}

// Close closes the row log and the log file.
func (a *CalApp) Close() error {
	var firstErr error
	if err := a.rows.Close(); err != nil {
		a.logger.Error("closing row log", "error", err)
		firstErr = fmt.Errorf("closing row log: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
