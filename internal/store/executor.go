// Package store bridges the blocking database driver to the rest of the
// application. Every query runs through the Executor, which draws a pooled
// connection and a worker slot so that database work never exceeds a fixed
// concurrency bound.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/remexre/nihctfplat/internal/my_errors"
)

// DefaultWorkers bounds concurrent database operations when no explicit
// worker count is configured.
const DefaultWorkers = 8

// Operation is a unit of database work run on a dedicated worker with an
// exclusively owned connection.
type Operation func(ctx context.Context, conn *pgxpool.Conn) error

// Executor runs Operations on a bounded worker pool over a pgx connection
// pool. The zero value is not usable; construct with NewExecutor. Calling
// Execute on an unconstructed or closed Executor is a programming error and
// panics.
type Executor struct {
	pool    *pgxpool.Pool
	slots   chan struct{}
	closed  chan struct{}
	acquire func(ctx context.Context) (*pgxpool.Conn, func(), error)
}

func NewExecutor(pool *pgxpool.Pool, workers int) *Executor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	e := &Executor{
		pool:   pool,
		slots:  make(chan struct{}, workers),
		closed: make(chan struct{}),
	}
	e.acquire = e.acquireConn
	return e
}

func (e *Executor) acquireConn(ctx context.Context) (*pgxpool.Conn, func(), error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Release, nil
}

// Execute runs op on a worker goroutine with an exclusively owned pooled
// connection and waits for it to settle. Saturation of the worker pool or
// failure to obtain a connection surfaces as ErrUnavailable; op's own error
// is wrapped and returned as-is otherwise. Execute never retries.
//
// If the caller's ctx is abandoned mid-operation the underlying query is not
// guaranteed to be cancelled; it may still complete and commit. Callers must
// not assume cancellation implies rollback.
func (e *Executor) Execute(ctx context.Context, op Operation) error {
	if e == nil || e.slots == nil {
		panic("store: Execute called on an unconstructed Executor")
	}
	select {
	case <-e.closed:
		panic("store: Execute called after Close")
	default:
	}

	select {
	case e.slots <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: worker pool saturated: %v", my_errors.ErrUnavailable, ctx.Err())
	}
	defer func() { <-e.slots }()

	conn, release, err := e.acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", my_errors.ErrUnavailable, err)
	}

	done := make(chan error, 1)
	go func() {
		defer release()
		done <- op(ctx, conn)
	}()

	if err := <-done; err != nil {
		return fmt.Errorf("operation failed: %w", err)
	}
	return nil
}

// Close marks the executor unusable and closes the underlying pool. Any
// Execute call after Close panics.
func (e *Executor) Close() {
	close(e.closed)
	if e.pool != nil {
		e.pool.Close()
	}
}
