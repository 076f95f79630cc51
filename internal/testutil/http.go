package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/daycarehub/internal/app/system/auth"
)

// SuperAdmin returns a caller carrying the super-admin claim.
func SuperAdmin() auth.Caller {
	return auth.Caller{UID: "super-admin", Email: "root@daycare.test", SuperAdmin: true}
}

// Caller returns a verified caller without elevated claims.
func Caller(uid string) auth.Caller {
	return auth.Caller{UID: uid, Email: uid + "@daycare.test"}
}

// WithCaller attaches c to the request context, bypassing token verification.
func WithCaller(r *http.Request, c auth.Caller) *http.Request {
	return r.WithContext(auth.WithCaller(r.Context(), c))
}

// NewCallableRequest builds a POST request carrying {"data": data}.
func NewCallableRequest(t *testing.T, target string, data any) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		t.Fatalf("marshal callable body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// CallableError is the error half of a callable response.
type CallableError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DecodeCallable decodes a callable response, storing the result into result
// when present. It returns the error body, or nil on success.
func DecodeCallable(t *testing.T, rec *httptest.ResponseRecorder, result any) *CallableError {
	t.Helper()
	var env struct {
		Result json.RawMessage `json:"result"`
		Error  *CallableError  `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode callable response %q: %v", rec.Body.String(), err)
	}
	if env.Error == nil && result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			t.Fatalf("decode callable result: %v", err)
		}
	}
	return env.Error
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}
