// internal/app/system/callable/callable.go
package callable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/system/limits"
	"github.com/dalemusser/daycarehub/internal/app/system/metrics"
	"github.com/dalemusser/daycarehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// request is the callable wire envelope: {"data": {...}}.
type request[T any] struct {
	Data T `json:"data"`
}

type response struct {
	Result any        `json:"result,omitempty"`
	Error  *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Status  Kind   `json:"status"`
	Message string `json:"message"`
}

// Func is the shape of every callable operation: a decoded request in,
// a response value or a callable Error out.
type Func[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Handler adapts fn to an HTTP handler speaking the callable protocol.
// Only POST is accepted. Non-callable errors are logged and reported as
// Internal with a generic message.
func Handler[Req, Resp any](name string, logger *zap.Logger, fn Func[Req, Resp]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if r.Method != http.MethodPost {
			writeError(w, Errorf(InvalidArgument, "Callable functions must be invoked with POST"))
			return
		}

		var in request[Req]
		dec := json.NewDecoder(io.LimitReader(r.Body, limits.MaxCallableBody))
		if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
			metrics.ObserveCall(name, string(InvalidArgument), time.Since(start))
			writeError(w, Errorf(InvalidArgument, "Request body must be a JSON object with a data field"))
			return
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Callable(), logger, name)
		defer cancel()

		out, err := fn(ctx, in.Data)
		if err != nil {
			kind := KindOf(err)
			metrics.ObserveCall(name, string(kind), time.Since(start))
			var ce *Error
			if !errors.As(err, &ce) {
				logger.Error("callable failed", zap.String("callable", name), zap.Error(err))
				ce = Errorf(Internal, "INTERNAL")
			} else if kind == Internal {
				logger.Error("callable failed", zap.String("callable", name), zap.Error(err))
			}
			writeError(w, ce)
			return
		}

		metrics.ObserveCall(name, "OK", time.Since(start))
		writeJSON(w, http.StatusOK, response{Result: out})
	}
}

// WriteError writes e in the callable error envelope. Middleware that rejects
// a request before it reaches Handler uses it to keep the wire format.
func WriteError(w http.ResponseWriter, e *Error) {
	writeError(w, e)
}

func writeError(w http.ResponseWriter, e *Error) {
	writeJSON(w, e.Kind.HTTPStatus(), response{Error: &errorBody{Status: e.Kind, Message: e.Message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
