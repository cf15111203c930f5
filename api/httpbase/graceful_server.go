package httpbase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownGrace is how long in-flight requests get to finish after a
// termination signal before the listener is torn down.
const shutdownGrace = 5 * time.Second

// GracefulServer wraps http.Server with SIGINT/SIGTERM handling so the
// API and runner processes drain requests before exiting.
type GracefulServer struct {
	server *http.Server
}

type GraceServerOpt struct {
	Port int
}

func NewGracefulServer(opt GraceServerOpt, handler http.Handler) *GracefulServer {
	return &GracefulServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", opt.Port),
			Handler: handler,
		},
	}
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
// It blocks for the lifetime of the server.
func (s *GracefulServer) Run() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("listen failed", slog.Any("error", err))
			// unblock the signal wait so the process exits
			quit <- syscall.SIGTERM
		}
	}()

	<-quit

	slog.Info("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("server failed to shut down", slog.Any("error", err))
	}

	slog.Info("server stopped")
}
