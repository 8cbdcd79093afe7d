package server

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/apexframe/apex/pkg/codegen"
	"github.com/apexframe/apex/pkg/router"
)

// handlePage maps a request path to a rendered page or the outcome the
// chain's loaders dictate. NoMatch and non-Ok loader outcomes are
// normal per-request results, never process failures.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := r.URL.Path

	ctx, span := s.tracer.Start(r.Context(), "apex.request")
	defer span.End()
	span.SetAttributes(attribute.String("apex.path", path))

	m, ok := s.reg.Match(path)
	if !ok {
		span.SetAttributes(attribute.String("apex.outcome", "no_match"))
		s.metrics.observe("no_match", time.Since(start))
		s.log.Debug("no route", "path", path)
		http.NotFound(w, r)
		return
	}
	span.SetAttributes(attribute.String("apex.route", s.reg.Pattern(m.Leaf())))

	res, err := s.resolver.Resolve(ctx, codegen.TargetServer, path, m)
	if err != nil {
		// Request abandoned before its loaders settled; nothing to
		// roll back because nothing rendered.
		span.RecordError(err)
		span.SetStatus(codes.Error, "request cancelled")
		s.metrics.observe("cancelled", time.Since(start))
		return
	}

	outcome := res.Outcome.Kind
	span.SetAttributes(attribute.String("apex.outcome", outcome.String()))
	s.metrics.observe(outcome.String(), time.Since(start))

	switch outcome {
	case router.LoaderOk:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(res.HTML))

	case router.LoaderRedirect:
		http.Redirect(w, r, res.Outcome.Location, http.StatusFound)

	case router.LoaderNotFound:
		http.NotFound(w, r)

	case router.LoaderServerError:
		s.log.Error("loader failed", "path", path, "message", res.Outcome.Message)
		http.Error(w, "internal server error", http.StatusInternalServerError)

	case router.LoaderRaw:
		switch body := res.Outcome.Response.(type) {
		case []byte:
			w.Write(body)
		case string:
			w.Write([]byte(body))
		default:
			fmt.Fprint(w, body)
		}
	}

	s.log.Info("request",
		"path", path,
		"outcome", outcome.String(),
		"duration", time.Since(start),
	)
}
