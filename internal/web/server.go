// Package web provides the HTTP dashboard for the focus-sensor daemon.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sweeney/focus-sensor/internal/status"
	"github.com/sweeney/focus-sensor/internal/store"
)

// Server serves the dashboard, stats and raw log over HTTP.
type Server struct {
	httpServer    *http.Server
	tracker       *status.Tracker
	logPath       string
	secondsPerRow float64
}

// New creates a Server that aggregates the log at logPath on every request.
// tracker may be nil when no ingestion loop runs in this process.
func New(addr, logPath string, secondsPerRow float64, tracker *status.Tracker) *Server {
	s := &Server{
		tracker:       tracker,
		logPath:       logPath,
		secondsPerRow: secondsPerRow,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/download", s.handleDownload)
	mux.HandleFunc("/status", s.handleStatus)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	var snap *status.Snapshot
	if s.tracker != nil {
		sn := s.tracker.Snapshot()
		snap = &sn
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	summary := store.ReadSummary(s.logPath, s.secondsPerRow)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(formatStats(summary))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(s.logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "cannot open log", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "cannot stat log", http.StatusInternalServerError)
		return
	}

	name := filepath.Base(s.logPath)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.tracker == nil {
		http.Error(w, "ingestion not running", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(s.tracker.Snapshot()))
}
