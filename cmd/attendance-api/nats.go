// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/zoomlearning/attendance-service/internal/infrastructure/store"
	"github.com/zoomlearning/attendance-service/internal/logging"
)

const natsConnectTimeout = 10 * time.Second

// setupNATS connects to the NATS server used for both the KV store and the
// outbound messages.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	slog.With("nats_url", env.NatsURL).DebugContext(ctx, "connecting to NATS")

	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(natsConnectTimeout),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).InfoContext(ctx, "NATS connection established")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).ErrorContext(ctx, "async NATS error")
				return
			}
			slog.With(logging.ErrKey, err).ErrorContext(ctx, "async NATS error outside subscription")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
			gracefulCloseWG.Done()
			select {
			case done <- os.Interrupt:
			default:
			}
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}

// getKeyValueStores provisions the JetStream KV bucket and returns the
// attendance repository bound to it.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*store.NatsAttendanceRepository, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).ErrorContext(ctx, "error creating JetStream context")
		return nil, err
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  store.KVStoreNameAttendanceRecords,
		History: 1,
	})
	if err != nil {
		slog.With(logging.ErrKey, err, "bucket", store.KVStoreNameAttendanceRecords).ErrorContext(ctx, "error binding KV bucket")
		return nil, err
	}

	return store.NewNatsAttendanceRepository(kv), nil
}

// gracefulShutdown drains the HTTP server and the NATS connection before the
// process exits.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	// Cancel the background context before draining so in-flight consumers
	// stop picking up new work.
	cancel()

	if natsConn != nil && !natsConn.IsClosed() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			natsConn.Close()
		}
	}

	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}
