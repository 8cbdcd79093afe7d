package main

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/apexframe/apex/internal/config"
	"github.com/apexframe/apex/internal/dev"
	"github.com/apexframe/apex/pkg/codegen"
	"github.com/apexframe/apex/pkg/template"
)

func devCmd() *cobra.Command {
	var (
		port int
		host string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Preview templates with hot reload",
		Long: `Serve the project's templates for preview, recompiling on change
and refreshing connected browsers.

Each template file maps to its path: templates/about.apx is served
at /about, and index templates at the directory root.

Examples:
  apex dev
  apex dev --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(dir, host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from apex.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from apex.yaml)")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory containing apex.yaml")

	return cmd
}

func runDev(dir, host string, port int) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}

	session, err := dev.NewSession(dev.SessionConfig{
		Dirs: cfg.Templates.Dirs,
		Ext:  cfg.Templates.Ext,
	})
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/_apex/reload", session.Reload().HandleWebSocket)
	r.Get("/*", previewHandler(cfg))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(ctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	success("dev server on http://%s", cfg.Addr())
	info("watching %v for %s changes", cfg.Templates.Dirs, cfg.Templates.Ext)

	return g.Wait()
}

// previewHandler compiles and renders the template a URL path names.
// Compilation happens per request, so edits show up on the next load
// without restarting.
func previewHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		path := findTemplate(cfg, req.URL.Path)
		if path == "" {
			http.NotFound(w, req)
			return
		}

		src, err := os.ReadFile(path)
		if err != nil {
			http.NotFound(w, req)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl, err := template.Parse(string(src))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "<!DOCTYPE html><body><pre>%s</pre>%s</body>",
				html.EscapeString(err.Error()), dev.ClientScript)
			return
		}

		prog := codegen.Compile(tmpl)
		html := prog.Server(codegen.Props{}, nil)
		fmt.Fprintf(w, "<!DOCTYPE html><body>%s%s</body>", html, dev.ClientScript)
	}
}

// findTemplate resolves a URL path to a template file under the
// configured directories. "/" and directory paths map to an index
// template.
func findTemplate(cfg *config.Config, urlPath string) string {
	rel := strings.TrimPrefix(urlPath, "/")
	if strings.Contains(rel, "..") {
		return ""
	}

	names := []string{rel + cfg.Templates.Ext}
	if rel == "" {
		names = []string{"index" + cfg.Templates.Ext}
	} else {
		names = append(names, filepath.Join(rel, "index"+cfg.Templates.Ext))
	}

	for _, dir := range cfg.Templates.Dirs {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
				return candidate
			}
		}
	}
	return ""
}
