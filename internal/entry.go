// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/kith/internal/command"
	"github.com/starford/kith/internal/console"
	"github.com/starford/kith/internal/mcpserver"
	"github.com/starford/kith/internal/storage"
	"github.com/starford/kith/internal/watch"
)

// Run starts the interactive console with the given options. Both books are
// saved when the console stops, whatever the reason.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger, closeLog, err := newLogger(cfg.App)
	if err != nil {
		return err
	}
	defer closeLog()

	var watcher *watch.Watcher
	if cfg.Watch.Enabled {
		watcher = watch.New(logger)
	}

	lib, d, err := setup(cfg, watcher, logger)
	if err != nil {
		return err
	}

	notices := make(chan string, 8)
	con := console.New(d, lib.session(cfg.Birthdays.DefaultDays), app.in, app.out,
		console.WithNotices(notices),
		console.WithAutoSave(cfg.Storage.AutoSave),
		console.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if watcher != nil {
		g.Go(func() error {
			err := watcher.Run(gCtx, func(path string) {
				msg := fmt.Sprintf("%s was modified outside this session; it will be overwritten on save.", filepath.Base(path))
				select {
				case notices <- msg:
				default:
				}
			})
			if err != nil {
				logger.Warn("Snapshot watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// The console stopping ends the session.
	g.Go(func() error {
		defer cancel()
		return con.Run(gCtx)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	runErr := g.Wait()
	if runErr != nil {
		logger.Error("Application error", slog.String("error", runErr.Error()))
	}

	if err := lib.Save(); err != nil {
		logger.Error("Final save failed", slog.String("error", err.Error()))
		return errors.Join(runErr, err)
	}
	logger.Info("Session closed")
	return runErr
}

// RunMCP serves the commands as MCP tools on the configured input and output.
// Both books are saved when the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger, closeLog, err := newLogger(cfg.App)
	if err != nil {
		return err
	}
	defer closeLog()

	lib, d, err := setup(cfg, nil, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mcpserver.New(d, lib.session(cfg.Birthdays.DefaultDays), cfg.Storage.AutoSave, logger)
	logger.Info("MCP server starting")
	serveErr := srv.Serve(ctx, app.in, app.out)
	if errors.Is(serveErr, context.Canceled) || errors.Is(serveErr, io.EOF) {
		serveErr = nil
	}

	if err := srv.Flush(); err != nil {
		logger.Error("Final save failed", slog.String("error", err.Error()))
		return errors.Join(serveErr, err)
	}
	return serveErr
}

func setup(cfg *Config, watcher *watch.Watcher, logger *slog.Logger) (*library, *command.Dispatcher, error) {
	logger.Info("Configuration loaded",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("contacts_path", cfg.Storage.ContactsPath),
		slog.String("notes_path", cfg.Storage.NotesPath),
		slog.Bool("autosave", cfg.Storage.AutoSave),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.New(cfg.Storage.Driver)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	lib, err := openLibrary(store, cfg.Storage, watcher, logger)
	if err != nil {
		return nil, nil, err
	}
	d, err := command.NewDispatcher(logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init commands: %w", err)
	}
	return lib, d, nil
}

// newLogger builds the JSON logger. Stdout belongs to the console and the
// MCP transport, so logs go to stderr or to cfg.LogFile.
func newLogger(cfg ApplicationConfig) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
