package report

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pkgsizer/pkg/scan"
)

// Handler builds the report web UI over a fixed set of scan results:
// an HTML page at /, the JSON report at /report.json and the rendered
// dependency graph at /graph.svg.
func Handler(results *scan.Results) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := WriteHTML(w, results); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	r.Get("/report.json", func(w http.ResponseWriter, req *http.Request) {
		data, err := results.ToJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	r.Get("/graph.svg", func(w http.ResponseWriter, req *http.Request) {
		svg, err := RenderSVG(req.Context(), ToDOT(results))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	})

	return r
}

// Serve runs the report server on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, results *scan.Results) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           Handler(results),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
