// Package health serves the liveness endpoint used by the hosting platform.
// It knows nothing about the bot.
package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Body is returned for every request.
const Body = "OK"

// NewRouter answers 200 with a plain-text body for any method and path.
func NewRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.HandleMethodNotAllowed = false
	r.NoRoute(alive)
	return r
}

func alive(c *gin.Context) {
	c.String(http.StatusOK, Body)
}

// Server wraps the liveness router in an http.Server.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer creates a liveness server listening on :port.
func NewServer(port string, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:           ":" + port,
			Handler:        NewRouter(),
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("liveness endpoint listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("liveness endpoint stopped")
	return nil
}
