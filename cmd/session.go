package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/app"
	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/render"
	"github.com/nibzard/taskboard/internal/storage"
)

// session is an open store and the controller working on it.
type session struct {
	kv      storage.KV
	adapter *storage.Adapter
	ctrl    *app.Controller
	report  *storage.LoadReport
}

func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	return logging.New(w, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	})
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{TimeFormat: cfg.TimeFormat}
}

func openAdapter(cfg *config.Config, logger *log.Logger) (storage.KV, *storage.Adapter, error) {
	kv, err := storage.Open(storage.Driver(cfg.StoreDriver), cfg.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	adapter, err := storage.NewAdapter(kv, cfg.StorageKey, logger)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	return kv, adapter, nil
}

// openSession opens the configured store and loads the board. A malformed
// snapshot is reported on stderr and the session starts empty.
func openSession(ctx context.Context, cfg *config.Config, logger *log.Logger) (*session, error) {
	kv, adapter, err := openAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	ctrl, report, err := app.Open(ctx, adapter, app.Options{
		Logger:      logger,
		HookCommand: cfg.HookCommand,
		WorkDir:     cfg.ProjectRoot,
	})
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	switch {
	case report.Reset && report.BackupFile != "":
		fmt.Fprintf(stderr, "Warning: store file was unreadable and has been moved to %s; starting empty.\n", report.BackupFile)
	case report.Reset:
		fmt.Fprintf(stderr, "Warning: stored tasks were malformed and have been set aside under %q; starting empty.\n", report.BackupKey)
	}
	return &session{kv: kv, adapter: adapter, ctrl: ctrl, report: report}, nil
}

func (s *session) Close() error {
	return s.kv.Close()
}

// withSession runs fn against a headless session that logs to stderr.
func withSession(ctx context.Context, cfg *config.Config, fn func(*app.Controller) error) (err error) {
	s, err := openSession(ctx, cfg, newLogger(cfg, stderr))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s.ctrl)
}
