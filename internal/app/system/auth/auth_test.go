package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/system/auth"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-32-chars-long"

func newVerifier(t *testing.T, issuer string) *auth.Verifier {
	t.Helper()
	v, err := auth.NewVerifier(testSecret, issuer, zap.NewNop())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v
}

func sign(t *testing.T, secret string, claims auth.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func validClaims(uid string) auth.Claims {
	return auth.Claims{
		Email: "Admin@Example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    "daycare-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// captureCaller returns a handler that records the caller it sees.
func captureCaller(got *auth.Caller, found *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *found = auth.CallerFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	if _, err := auth.NewVerifier("", "", zap.NewNop()); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestVerify_Valid(t *testing.T) {
	v := newVerifier(t, "daycare-test")
	claims := validClaims("uid-1")
	claims.SuperAdmin = true

	c, err := v.Verify(sign(t, testSecret, claims))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if c.UID != "uid-1" {
		t.Errorf("expected uid-1, got %q", c.UID)
	}
	if c.Email != "admin@example.com" {
		t.Errorf("expected lowercased email, got %q", c.Email)
	}
	if !c.SuperAdmin {
		t.Error("expected super admin claim")
	}
}

func TestVerify_Rejects(t *testing.T) {
	v := newVerifier(t, "daycare-test")

	expired := validClaims("uid-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := validClaims("uid-1")
	wrongIssuer.Issuer = "someone-else"

	noSubject := validClaims("")

	noExpiry := validClaims("uid-1")
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(t, "another-secret-that-is-32-chars-long!", validClaims("uid-1"))},
		{"expired", sign(t, testSecret, expired)},
		{"wrong issuer", sign(t, testSecret, wrongIssuer)},
		{"no subject", sign(t, testSecret, noSubject)},
		{"no expiry", sign(t, testSecret, noExpiry)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestLoadCaller_ValidToken(t *testing.T) {
	v := newVerifier(t, "")
	var got auth.Caller
	var found bool

	req := httptest.NewRequest(http.MethodPost, "/callable/x", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, validClaims("uid-7")))
	rec := httptest.NewRecorder()
	v.LoadCaller(captureCaller(&got, &found)).ServeHTTP(rec, req)

	if !found {
		t.Fatal("expected caller in context")
	}
	if got.UID != "uid-7" {
		t.Errorf("expected uid-7, got %q", got.UID)
	}
}

func TestLoadCaller_NoOrBadToken_Anonymous(t *testing.T) {
	v := newVerifier(t, "")

	for _, header := range []string{"", "Bearer nonsense", "Basic abc"} {
		var got auth.Caller
		var found bool
		req := httptest.NewRequest(http.MethodPost, "/callable/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		v.LoadCaller(captureCaller(&got, &found)).ServeHTTP(rec, req)

		if found {
			t.Errorf("header %q: expected anonymous request", header)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("header %q: expected request to continue, got %d", header, rec.Code)
		}
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		caller *auth.Caller
		want   int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"regular user", &auth.Caller{UID: "u1"}, http.StatusForbidden},
		{"super admin", &auth.Caller{UID: "u1", SuperAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/jobs/status-reset", nil)
			if tt.caller != nil {
				req = req.WithContext(auth.WithCaller(req.Context(), *tt.caller))
			}
			rec := httptest.NewRecorder()
			auth.RequireSuperAdmin(ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
