package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

const secret = "test-secret-0123456789"

func TestSignVerifyRoundTrip(t *testing.T) {
	want := Identity{UserID: "u1", Email: "a@iiit.ac.in", Role: model.RoleParticipant, ParticipantType: model.ParticipantIIIT}
	token, err := NewIssuer(secret, time.Hour).Sign(want)
	require.NoError(t, err)

	got, err := NewVerifier(secret).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, model.Participant{ID: "u1", Email: "a@iiit.ac.in", Type: model.ParticipantIIIT}, got.Participant())
}

func TestVerify_Rejects(t *testing.T) {
	good := Identity{UserID: "u1", Role: model.RoleOrganizer}

	expired := NewIssuer(secret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Sign(good)
	require.NoError(t, err)

	otherKey, err := NewIssuer("another-secret-0123456", time.Hour).Sign(good)
	require.NoError(t, err)

	badRole, err := NewIssuer(secret, time.Hour).Sign(Identity{UserID: "u1", Role: "Root"})
	require.NoError(t, err)

	noSubject, err := NewIssuer(secret, time.Hour).Sign(Identity{Role: model.RoleAdmin})
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "role": "Admin"}).
		SignedString([]byte(secret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":      "",
		"garbage":    "not.a.jwt",
		"expired":    expiredToken,
		"wrong key":  otherKey,
		"bad role":   badRole,
		"no subject": noSubject,
		"no exp":     noExp,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewVerifier(secret).Verify(token)
			assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
		})
	}
}

func TestVerify_ParticipantTypeDefaultsToNonIIIT(t *testing.T) {
	token, err := NewIssuer(secret, time.Hour).Sign(Identity{UserID: "u2", Role: model.RoleParticipant})
	require.NoError(t, err)

	id, err := NewVerifier(secret).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, model.ParticipantNonIIIT, id.ParticipantType)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?access_token=q", nil)
	assert.Equal(t, "q", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer h")
	assert.Equal(t, "h", TokenFromRequest(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", TokenFromRequest(r))
}

func TestMiddleware(t *testing.T) {
	token, err := NewIssuer(secret, time.Hour).Sign(Identity{UserID: "u1", Role: model.RoleAdmin})
	require.NoError(t, err)

	var seen Identity
	h := Middleware(NewVerifier(secret), func(w http.ResponseWriter, _ *http.Request, _ error) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u1", seen.UserID)
	assert.True(t, seen.IsAdmin())
}
