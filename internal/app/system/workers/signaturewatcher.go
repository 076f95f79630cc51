// internal/app/system/workers/signaturewatcher.go
package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxResumeFailures is how many consecutive opens may fail with a resume
// token before the watcher gives the token up and starts a fresh stream.
const maxResumeFailures = 3

// Server codes meaning a resume token can no longer be used.
const (
	codeChangeStreamFatal       = 280
	codeChangeStreamHistoryLost = 286
)

// IsHistoryLost reports whether err means the change stream cannot resume
// from its token, because the oplog has rolled past it or the server
// marked the stream fatal.
func IsHistoryLost(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorCode(codeChangeStreamHistoryLost) ||
		se.HasErrorCode(codeChangeStreamFatal) ||
		se.HasErrorLabel("NonResumableChangeStreamError")
}

// InsertStream yields newly inserted signature requests.
type InsertStream interface {
	Next(ctx context.Context) (models.SignatureRequest, bool, error)
	ResumeToken() bson.Raw
	Close(ctx context.Context) error
}

// StreamOpener opens an insert stream, resuming after token when non-nil.
type StreamOpener func(ctx context.Context, resume bson.Raw) (InsertStream, error)

// SignatureWatcher is a background worker that follows inserts into
// signature_requests and hands each one to the notifier. When the stream
// fails it is reopened after a back-off, resuming from the last seen event.
// A token the server rejects is dropped and a fresh stream is started;
// inserts made in the gap are not notified.
type SignatureWatcher struct {
	open     StreamOpener
	notify   func(ctx context.Context, req models.SignatureRequest)
	log      *zap.Logger
	backoff  time.Duration
	maxDelay time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSignatureWatcher creates a new watcher.
//
// Parameters:
//   - open: opens the change stream (signaturerequeststore.Store.WatchInserts)
//   - notify: called once per inserted request
//   - logger: zap logger for logging
//   - backoff: initial delay before reopening a failed stream; doubles up to one minute
func NewSignatureWatcher(open StreamOpener, notify func(ctx context.Context, req models.SignatureRequest), logger *zap.Logger, backoff time.Duration) *SignatureWatcher {
	if backoff <= 0 {
		backoff = time.Second
	}
	return &SignatureWatcher{
		open:     open,
		notify:   notify,
		log:      logger,
		backoff:  backoff,
		maxDelay: time.Minute,
	}
}

// Start begins following the stream.
func (w *SignatureWatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go w.run(ctx)
	w.log.Info("signature request watcher started")
}

// Stop signals the worker to stop and waits for it to finish.
func (w *SignatureWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.log.Info("signature request watcher stopped")
}

func (w *SignatureWatcher) run(ctx context.Context) {
	defer w.wg.Done()

	var resume bson.Raw
	resumeFailures := 0
	delay := w.backoff
	for {
		opened, delivered, token, err := w.follow(ctx, resume)
		if ctx.Err() != nil {
			return
		}
		if token != nil {
			resume = token
		}
		if delivered {
			delay = w.backoff
		}

		if opened || resume == nil {
			resumeFailures = 0
		} else {
			resumeFailures++
		}
		if resume != nil && (IsHistoryLost(err) || resumeFailures >= maxResumeFailures) {
			w.log.Warn("signature request resume token rejected, starting a fresh stream; inserts since the last event were not notified",
				zap.Error(err),
				zap.Int("failed_opens", resumeFailures))
			resume = nil
			resumeFailures = 0
		}

		w.log.Warn("signature request stream interrupted, reopening",
			zap.Error(err),
			zap.Duration("retry_in", delay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if delay *= 2; delay > w.maxDelay {
			delay = w.maxDelay
		}
	}
}

// follow reads the stream until it fails. It reports whether the stream
// opened, whether any event was delivered, and the last resume token seen.
func (w *SignatureWatcher) follow(ctx context.Context, resume bson.Raw) (bool, bool, bson.Raw, error) {
	st, err := w.open(ctx, resume)
	if err != nil {
		return false, false, nil, err
	}
	defer st.Close(context.Background())

	delivered := false
	var token bson.Raw
	for {
		req, ok, err := st.Next(ctx)
		if !ok {
			return true, delivered, token, err
		}
		token = st.ResumeToken()
		if err != nil {
			w.log.Error("skipping undecodable signature request event", zap.Error(err))
			continue
		}
		w.notify(ctx, req)
		delivered = true
	}
}
