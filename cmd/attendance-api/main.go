// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

// Package main is the attendance service API. It receives Zoom webhook events
// over HTTP, maintains one attendance record per meeting participant, and
// publishes attendance changes to the rest of the learning platform over NATS.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/zoomlearning/attendance-service/internal/handlers"
	"github.com/zoomlearning/attendance-service/internal/infrastructure/messaging"
	"github.com/zoomlearning/attendance-service/internal/infrastructure/webhook"
	"github.com/zoomlearning/attendance-service/internal/logging"
	"github.com/zoomlearning/attendance-service/internal/service"
)

func main() {
	// Load a .env file when present; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value store repository for the service.
	attendanceRepository, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	webhookValidator := webhook.NewZoomWebhookValidator(env.ZoomWebhookSecretToken)
	attendanceService := service.NewAttendanceService(attendanceRepository, messageBuilder)
	webhookService := service.NewZoomWebhookService(attendanceService, webhookValidator)

	// Initialize handlers
	zoomWebhookHandler := handlers.NewZoomWebhookHandler(webhookService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	healthHandler := handlers.NewHealthHandler(zoomWebhookHandler, attendanceHandler)

	httpServer := setupHTTPServer(flags, zoomWebhookHandler, attendanceHandler, healthHandler, &gracefulCloseWG)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}
