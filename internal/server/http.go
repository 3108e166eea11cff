package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPService adapts an http.Server to the Service interface with graceful
// shutdown.
type HTTPService struct {
	logger *zap.Logger
	server *http.Server
	grace  time.Duration
}

// NewHTTPService wraps an http.Server.
//
// Precondition: logger and srv must be non-nil.
func NewHTTPService(logger *zap.Logger, srv *http.Server, grace time.Duration) *HTTPService {
	return &HTTPService{logger: logger, server: srv, grace: grace}
}

// Start listens and serves until Stop is called. A clean shutdown is not an
// error.
func (h *HTTPService) Start() error {
	h.logger.Info("http listener starting", zap.String("addr", h.server.Addr))
	if err := h.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the grace period, then forces the
// listener closed.
func (h *HTTPService) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), h.grace)
	defer cancel()
	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Warn("http shutdown not clean", zap.Error(err))
		h.server.Close()
	}
}
