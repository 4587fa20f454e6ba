// Package auth verifies bearer tokens issued by the festival's identity
// provider and exposes the caller's identity to handlers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID          string
	Email           string
	Role            model.Role
	ParticipantType model.ParticipantType
}

// Participant returns the admission-relevant view of the identity.
func (id Identity) Participant() model.Participant {
	return model.Participant{ID: id.UserID, Email: id.Email, Type: id.ParticipantType}
}

// IsAdmin reports whether the caller holds the Admin role.
func (id Identity) IsAdmin() bool { return id.Role == model.RoleAdmin }

// claims is the JWT payload.
type claims struct {
	jwt.RegisteredClaims
	Email           string `json:"email"`
	Role            string `json:"role"`
	ParticipantType string `json:"participantType,omitempty"`
}

// Verifier checks HS256-signed tokens.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier returns a verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// Verify parses and validates a raw token.
func (v *Verifier) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, apperr.ErrUnauthenticated
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Identity{}, mapJWTError(err)
	}

	id := Identity{
		UserID:          strings.TrimSpace(parsed.Subject),
		Email:           strings.TrimSpace(parsed.Email),
		Role:            model.Role(parsed.Role),
		ParticipantType: model.ParticipantType(parsed.ParticipantType),
	}
	if id.UserID == "" {
		return Identity{}, apperr.ErrUnauthenticated.Wrap(errors.New("token has no subject"))
	}
	if !id.Role.Valid() {
		return Identity{}, apperr.ErrUnauthenticated.Wrap(fmt.Errorf("unknown role %q", parsed.Role))
	}
	if id.Role == model.RoleParticipant && id.ParticipantType == "" {
		id.ParticipantType = model.ParticipantNonIIIT
	}
	return id, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperr.ErrUnauthenticated.Wrap(fmt.Errorf("token expired: %w", err))
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperr.ErrUnauthenticated.Wrap(fmt.Errorf("bad signature: %w", err))
	}
	return apperr.ErrUnauthenticated.Wrap(err)
}

// Issuer signs tokens with the same secret the verifier uses. It backs the
// dev token command and tests.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an issuer whose tokens expire after ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token for id.
func (i *Issuer) Sign(id Identity) (string, error) {
	now := i.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email:           id.Email,
		Role:            string(id.Role),
		ParticipantType: string(id.ParticipantType),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ─── Request plumbing ─────────────────────────────────────────────────────────

type identityKey struct{}

// WithIdentity stores id on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by the middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// TokenFromRequest reads the bearer token, or the access_token query
// parameter that browsers must use for websocket upgrades.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware rejects requests without a valid token and stores the identity
// on the request context.
func Middleware(v *Verifier, onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := v.Verify(TokenFromRequest(r))
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
