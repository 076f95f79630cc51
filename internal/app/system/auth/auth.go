package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Caller identity                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// Caller is the verified identity attached to a request. The super-admin flag
// comes from the token claims, not from the stored profile.
type Caller struct {
	UID        string
	Email      string
	SuperAdmin bool
}

type ctxKey string

const callerKey ctxKey = "caller"

// CallerFrom returns the caller & "found?" flag.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok
}

// WithCaller returns a copy of ctx carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Token verification                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// Claims is the payload of an identity token.
type Claims struct {
	Email      string `json:"email,omitempty"`
	SuperAdmin bool   `json:"super_admin,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 bearer tokens issued by the identity provider.
type Verifier struct {
	secret []byte
	issuer string
	log    *zap.Logger
}

// NewVerifier returns a Verifier. When issuer is non-empty the iss claim must match.
func NewVerifier(secret, issuer string, logger *zap.Logger) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended", zap.Int("length", len(secret)))
	}
	return &Verifier{secret: []byte(secret), issuer: issuer, log: logger}, nil
}

// Verify parses and validates a raw token and returns the caller it names.
func (v *Verifier) Verify(raw string) (Caller, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Caller{}, err
	}
	if claims.Subject == "" {
		return Caller{}, fmt.Errorf("token has no subject")
	}
	return Caller{
		UID:        claims.Subject,
		Email:      strings.ToLower(claims.Email),
		SuperAdmin: claims.SuperAdmin,
	}, nil
}

// LoadCaller injects the caller into the request context when a valid bearer
// token is present. Requests without one continue anonymously; handlers decide
// whether identity is required.
func (v *Verifier) LoadCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		c, err := v.Verify(raw)
		if err != nil {
			v.log.Debug("rejected bearer token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), c)))
	})
}

// RequireSuperAdmin rejects requests whose caller lacks the super-admin claim.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := CallerFrom(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !c.SuperAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// helpers

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
