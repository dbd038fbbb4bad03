package cmd

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/felixge/httpsnoop"
	"github.com/spf13/cobra"

	"github.com/fieldforge/navcore/internal/obslog"
	"github.com/fieldforge/navcore/utils"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP introspection surface (10.5)",
	Long: `Serve /healthz, /debug/queue, and /debug/zones over plain net/http,
instrumented with felixge/httpsnoop so every request is logged with its
status code and duration.

Examples:
  navcli serve --addr :8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if isVerbose() {
		level = slog.LevelDebug
	}
	logger := slog.New(obslog.New(os.Stderr, obslog.Options{Level: level}))

	e := demoEngine()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/debug/queue", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"queue_len": e.QueueLen()})
	})
	mux.HandleFunc("/debug/zones", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"search_pool_in_use": e.PoolInUse()})
	})

	handler := loggingMiddleware(logger, mux)

	utils.PrintStartupMessage(serveAddr)
	logger.Info("listening", "addr", serveAddr)
	return http.ListenAndServe(serveAddr, handler)
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"duration_ms", m.Duration.Milliseconds(),
			"bytes", m.Written,
		)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
