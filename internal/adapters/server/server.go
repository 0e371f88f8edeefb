// internal/adapters/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"arlo/internal/adapters/output"
	"arlo/internal/core/domain"
	"arlo/internal/platform/logx"
	"arlo/internal/platform/validator"
)

const shutdownTimeout = 10 * time.Second

// Searcher es la parte del pipeline que el front end necesita.
type Searcher interface {
	Search(ctx context.Context, keyword string) (*domain.SearchResult, error)
}

// Options configura el servidor.
type Options struct {
	Addr     string
	Searcher Searcher
	Logger   logx.Logger

	// SearchTimeout es el deadline de una búsqueda; las escrituras se
	// acotan por encima de él para no cortar respuestas legítimas.
	SearchTimeout time.Duration
}

// Server expone la búsqueda por HTTP:
//
//	GET|POST /search?search=<keyword>  -> arreglo JSON combinado
//	GET      /healthz                  -> "ok"
type Server struct {
	searcher Searcher
	logger   logx.Logger
	srv      *http.Server
}

// New crea el servidor sin empezar a escuchar.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logx.NewNop()
	}
	s := &Server{
		searcher: opts.Searcher,
		logger:   opts.Logger.With("component", "server"),
	}
	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      opts.SearchTimeout + 30*time.Second,
	}
	return s
}

// Handler retorna el mux con las rutas del front end.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Run escucha hasta que ctx se cancela y luego apaga el servidor
// esperando a que terminen las búsquedas en curso.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve atiende conexiones de ln hasta que ctx se cancela.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return <-serverErr
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	keyword := validator.NormalizeKeyword(r.FormValue("search"))
	if !validator.IsKeyword(keyword) {
		http.Error(w, "invalid search parameters", http.StatusBadRequest)
		return
	}

	result, err := s.searcher.Search(r.Context(), keyword)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "search failed"
		if errors.Is(err, domain.ErrAborted) {
			status = http.StatusServiceUnavailable
			msg = "search aborted"
		}
		s.logger.Warn("search failed", "keyword", keyword, "error", err.Error())
		http.Error(w, msg, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Arlo-Run-Id", result.ID)
	w.Header().Set("X-Arlo-Sources-Failed", strconv.Itoa(len(result.Failed())))
	w.WriteHeader(http.StatusOK)
	if err := output.WriteJSON(w, result.Payload); err != nil {
		s.logger.Warn("failed to write response", "error", err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
