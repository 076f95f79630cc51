package jobs

import (
	"context"
	"errors"
	"fmt"
)

// Transactor runs fn as one transaction. *txn.Runner satisfies it.
type Transactor interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// inTx runs fn through tx, or directly when tx is nil.
func inTx(ctx context.Context, tx Transactor, fn func(ctx context.Context) error) error {
	if tx == nil {
		return fn(ctx)
	}
	return tx.Run(ctx, fn)
}

// Failures collects errors from best-effort steps that must not abort a run.
type Failures struct {
	errs []error
}

// Add records err under a short label. Nil errors are ignored.
func (f *Failures) Add(label string, err error) {
	if err == nil {
		return
	}
	f.errs = append(f.errs, fmt.Errorf("%s: %w", label, err))
}

// Len is the number of recorded failures.
func (f *Failures) Len() int {
	return len(f.errs)
}

// Err joins the recorded failures, or returns nil when there were none.
func (f *Failures) Err() error {
	return errors.Join(f.errs...)
}

// Chunks splits items into consecutive slices of at most size elements.
func Chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]T
	for len(items) > 0 {
		n := size
		if len(items) < n {
			n = len(items)
		}
		out = append(out, items[:n:n])
		items = items[n:]
	}
	return out
}
