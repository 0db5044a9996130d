package server

import (
	"net/http"
	"time"

	"github.com/fraudscope/server/internal/agent/graph"
	logx "github.com/fraudscope/server/pkg/logger"
)

// Config holds HTTP server settings.
type Config struct {
	Addr string `envconfig:"SERVER_ADDR" default:":8000"`
}

// New builds the HTTP server with the analysis routes mounted.
func New(cfg Config, runner graph.Runner) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("POST /analyze", NewAnalyzeHandler(runner))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// withCORS allows browser clients from any origin and answers preflights.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe runs the server until it fails or is shut down.
func ListenAndServe(srv *http.Server) error {
	logx.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
	return srv.ListenAndServe()
}
