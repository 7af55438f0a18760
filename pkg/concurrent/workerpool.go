// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

// Package concurrent provides helpers for running groups of tasks with
// bounded parallelism.
package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool represents a pool of workers that can process jobs concurrently.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a worker pool limited to the given number of
// concurrent goroutines.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &WorkerPool{workerCount: workerCount}
}

// RunAll executes all functions without cancellation on error and returns
// every non-nil error that occurred.
func (wp *WorkerPool) RunAll(ctx context.Context, functions ...func() error) []error {
	if len(functions) == 0 {
		return nil
	}

	errCh := make(chan error, len(functions))

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return nil
			default:
			}
			if err := fn(); err != nil {
				errCh <- err
			}
			return nil
		})
	}

	_ = g.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}
