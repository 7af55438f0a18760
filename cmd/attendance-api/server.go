// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/zoomlearning/attendance-service/internal/handlers"
	"github.com/zoomlearning/attendance-service/internal/logging"
	"github.com/zoomlearning/attendance-service/internal/middleware"
)

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(
	flags flags,
	webhookHandler *handlers.ZoomWebhookHandler,
	attendanceHandler *handlers.AttendanceHandler,
	healthHandler *handlers.HealthHandler,
	gracefulCloseWG *sync.WaitGroup,
) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/zoom/webhook", webhookHandler.HandleZoomWebhook)
	mux.HandleFunc("GET /api/zoom/webhook/test", webhookHandler.HandleWebhookTest)
	mux.HandleFunc("GET /api/zoom/meetings/{meetingID}/attendance", attendanceHandler.HandleMeetingAttendance)
	mux.HandleFunc("GET /livez", healthHandler.HandleLivez)
	mux.HandleFunc("GET /readyz", healthHandler.HandleReadyz)
	mux.HandleFunc("GET /", healthHandler.HandleRoot)

	var handler http.Handler = mux

	// Add HTTP middleware
	// Note: Order matters - RequestIDMiddleware should come first in the chain,
	// so it should be the last middleware added to the handler since it is executed in reverse order.
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.AuthorizationMiddleware()(handler)
	handler = middleware.SecurityHeadersMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
