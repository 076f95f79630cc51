package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/daycarehub/internal/app/features/health"
	"github.com/dalemusser/daycarehub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, resp
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(db.Client(), zap.NewNop())

	rec, resp := serve(t, handler)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if resp.Status != "ok" || resp.Database != "connected" {
		t.Errorf("unexpected body %+v", resp)
	}
}

type failingPinger struct{ err error }

func (f failingPinger) Ping(context.Context, *readpref.ReadPref) error { return f.err }

func TestServe_DatabaseDown(t *testing.T) {
	handler := health.NewHandler(failingPinger{errors.New("server selection timeout")}, zap.NewNop())

	rec, resp := serve(t, handler)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if resp.Status != "error" || resp.Database != "disconnected" || resp.Message != "Database unavailable" {
		t.Errorf("unexpected body %+v", resp)
	}
	if resp.Error != "server selection timeout" {
		t.Errorf("error = %q", resp.Error)
	}
}
