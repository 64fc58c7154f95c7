// Package web serves a JSON and glTF browser over a directory of
// collision files.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/colkit/internal/export"
	"github.com/Faultbox/colkit/internal/loader"
	"github.com/Faultbox/colkit/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server browses the collision files below Root.
type Server struct {
	root   string
	loader *loader.Loader
	export export.Options
	log    *zap.Logger
}

// NewServer creates a server. A nil logger uses the global one.
func NewServer(root string, l *loader.Loader, exportOpts export.Options, log *zap.Logger) *Server {
	if log == nil {
		log = logger.Named("web")
	}
	return &Server{root: root, loader: l, export: exportOpts, log: log}
}

// Handler returns the routed handler with panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	// File names arrive path-escaped so nested paths fit in one segment
	r.UseEncodedPath()

	r.HandleFunc("/json/files", s.handleFiles).Methods(http.MethodGet)
	r.HandleFunc("/json/file/{file}", s.handleFile).Methods(http.MethodGet)
	r.HandleFunc("/json/file/{file}/{index:[0-9]+}", s.handleModel).Methods(http.MethodGet)
	r.HandleFunc("/gltf/file/{file}/{index:[0-9]+}", s.handleGLTF).Methods(http.MethodGet)

	h := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.log}),
		handlers.PrintRecoveryStack(true),
	)(r)
	return handlers.LoggingHandler(logger.Writer(s.log, zapcore.InfoLevel), h)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("starting server", zap.String("addr", addr), zap.String("root", s.root))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("stopping server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// recoveryLogger adapts zap to handlers.RecoveryHandlerLogger.
type recoveryLogger struct {
	log *zap.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.log.Error("handler panic", zap.String("detail", fmt.Sprint(v...)))
}
