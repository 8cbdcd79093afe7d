package dev

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// SessionConfig configures a dev session.
type SessionConfig struct {
	// Dirs are the template directories to watch and compile.
	Dirs []string

	// Ext is the template file extension.
	Ext string

	// Logger receives watch and compile events. Defaults to slog.Default.
	Logger *slog.Logger

	// Debounce overrides the watcher debounce interval.
	Debounce time.Duration
}

// Session wires the template watcher to the reload server. Each change
// recompiles the template directories and broadcasts either a reload or
// the compile error to connected pages.
type Session struct {
	config  SessionConfig
	watcher *Watcher
	reload  *ReloadServer
	log     *slog.Logger
}

// NewSession creates a session watching the configured directories.
func NewSession(config SessionConfig) (*Session, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	w, err := NewWatcher(WatcherConfig{
		Dirs:     config.Dirs,
		Ext:      config.Ext,
		Debounce: config.Debounce,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		config:  config,
		watcher: w,
		reload:  NewReloadServer(),
		log:     config.Logger,
	}
	w.OnChange(s.handleChange)
	return s, nil
}

// Reload exposes the reload server so its WebSocket endpoint can be
// mounted on the page server.
func (s *Session) Reload() *ReloadServer {
	return s.reload
}

// Run watches for changes until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer s.watcher.Close()
	defer s.reload.Close()

	err := s.watcher.Start(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

func (s *Session) handleChange(path string) {
	errs := Check(s.config.Dirs, s.config.Ext)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		joined := strings.Join(msgs, "\n")
		s.log.Error("template compile failed", "file", path, "errors", len(errs))
		s.reload.NotifyError(joined)
		return
	}

	s.log.Info("templates recompiled", "file", path)
	s.reload.ClearError()
	s.reload.NotifyReload(path)
}
