// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions (standalone server, or a session/transaction
// state the server rejects).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, transaction numbers on standalone, OperationNotSupportedInTransaction
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			hits++
		}
	}
	return hits >= 2
}

// Runner executes a unit of work inside a MongoDB transaction when the
// deployment supports it, and directly otherwise.
type Runner struct {
	client *mongo.Client
	log    *zap.Logger
}

// NewRunner returns a Runner for client. A nil client always runs fn directly.
func NewRunner(client *mongo.Client, logger *zap.Logger) *Runner {
	return &Runner{client: client, log: logger}
}

// Run calls fn with a transactional session context. If the server refuses
// transactions, fn is run again without one. fn must therefore be safe to
// repeat after a rejected start, which holds because a rejected transaction
// commits nothing.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.client == nil {
		return fn(ctx)
	}

	sess, err := r.client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if r.log != nil {
			r.log.Debug("transactions not supported, running without", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}
