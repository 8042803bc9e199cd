package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FINTRACK_BACK-END/internal/config"
	"FINTRACK_BACK-END/internal/models"
	"FINTRACK_BACK-END/internal/utils"
)

func jwtConfig(ttl time.Duration) *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: ttl}
}

func testUser() models.User {
	return models.User{
		ID:    uuid.New(),
		Email: "john@example.com",
		Role:  models.RoleUser,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := jwtConfig(time.Hour)
	user := testUser()

	token, err := GenerateToken(user, cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := jwtConfig(-time.Minute)
	token, err := GenerateToken(testUser(), cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, cfg)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken(testUser(), jwtConfig(time.Hour))
	require.NoError(t, err)

	_, err = ValidateToken(token, &config.JWTConfig{Secret: "other-secret"})
	assert.Error(t, err)

	_, err = ValidateToken("not.a.token", jwtConfig(time.Hour))
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := jwtConfig(time.Hour)
	user := testUser()
	token, err := GenerateToken(user, cfg)
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotRole string
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = utils.GetUserIDFromContext(r.Context())
		gotRole, _ = utils.GetRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}, cfg)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"malformed token", "Bearer garbage", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, user.ID, gotID, "principal must reach the handler context")
	assert.Equal(t, models.RoleUser, gotRole)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	token, err := GenerateToken(testUser(), jwtConfig(-time.Minute))
	require.NoError(t, err)

	called := false
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, jwtConfig(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "handler must not run for an expired token")
}
