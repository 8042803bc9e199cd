package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"FINTRACK_BACK-END/internal/middleware"
	"FINTRACK_BACK-END/internal/models"
)

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, rec.Code, env.StatusCode, "envelope statusCode must mirror the HTTP status")
	return env
}

func registerPayload() map[string]any {
	return map[string]any{
		"name":     "John Doe",
		"email":    "john@example.com",
		"phone":    "1234567890",
		"password": "password123",
		"role":     "USER",
	}
}

func TestRegisterSuccess(t *testing.T) {
	cfg := testConfig()
	mux := newTestMux(cfg, newMemStore())

	rec := doJSON(t, mux, http.MethodPost, "/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Status)
	assert.Equal(t, "User registered successfully", env.Message)

	var data struct {
		User struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "John Doe", data.User.Name)
	assert.Equal(t, "USER", data.User.Role)
	_, err := uuid.Parse(data.User.ID)
	assert.NoError(t, err, "id must be a generated uuid")

	// Plaintext and hashed password never appear in the response
	assert.NotContains(t, rec.Body.String(), "password123")
	assert.NotContains(t, rec.Body.String(), "password_hash")

	// Token id claim matches the created user
	claims, err := middleware.ValidateToken(data.Token, &cfg.JWT)
	require.NoError(t, err)
	assert.Equal(t, data.User.ID, claims.UserID.String())
	assert.Equal(t, "john@example.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mux := newTestMux(testConfig(), newMemStore())

	rec := doJSON(t, mux, http.MethodPost, "/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same email with different remaining fields still conflicts
	second := registerPayload()
	second["name"] = "Someone Else"
	second["phone"] = "0000000000"
	rec = doJSON(t, mux, http.MethodPost, "/register", "", second)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Status)
	assert.Equal(t, "User already exists", env.Message)
}

func TestRegisterValidation(t *testing.T) {
	mux := newTestMux(testConfig(), newMemStore())

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantMsg string
	}{
		{"missing name", func(p map[string]any) { delete(p, "name") }, `"name" is required`},
		{"bad email", func(p map[string]any) { p["email"] = "not-an-email" }, `"email" must be a valid email`},
		{"missing phone", func(p map[string]any) { delete(p, "phone") }, `"phone" is required`},
		{"short password", func(p map[string]any) { p["password"] = "abc" }, `"password" length must be at least 6 characters long`},
		{"bad role", func(p map[string]any) { p["role"] = "ROOT" }, `"role" must be one of [USER, ADMIN]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := registerPayload()
			tc.mutate(payload)
			rec := doJSON(t, mux, http.MethodPost, "/register", "", payload)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.False(t, env.Status)
			assert.Contains(t, env.Message, tc.wantMsg)
		})
	}
}

func TestRegisterCollectsAllFailures(t *testing.T) {
	mux := newTestMux(testConfig(), newMemStore())

	rec := doJSON(t, mux, http.MethodPost, "/register", "", map[string]any{
		"email":    "not-an-email",
		"password": "abc",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Message, `"name" is required`)
	assert.Contains(t, env.Message, `"email" must be a valid email`)
	assert.Contains(t, env.Message, `"password" length must be at least 6 characters long`)
	assert.Contains(t, env.Message, `"role" is required`)
}

func TestLogin(t *testing.T) {
	cfg := testConfig()
	store := newMemStore()
	mux := newTestMux(cfg, store)

	rec := doJSON(t, mux, http.MethodPost, "/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/login", "", map[string]any{
		"email":    "john@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Status)
	assert.Equal(t, "Login successful", env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)

	claims, err := middleware.ValidateToken(data.Token, &cfg.JWT)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", claims.Email)
}

func TestLoginFailureIsNotEnumerable(t *testing.T) {
	mux := newTestMux(testConfig(), newMemStore())

	rec := doJSON(t, mux, http.MethodPost, "/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := doJSON(t, mux, http.MethodPost, "/login", "", map[string]any{
		"email":    "john@example.com",
		"password": "wrongpass",
	})
	unknownEmail := doJSON(t, mux, http.MethodPost, "/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	// Identical body either way, so accounts cannot be enumerated
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Invalid email or password", decodeEnvelope(t, wrongPassword).Message)
}

func TestGetCurrentUser(t *testing.T) {
	cfg := testConfig()
	store := newMemStore()
	mux := newTestMux(cfg, store)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	now := time.Now()
	user := models.User{
		ID:           uuid.New(),
		Name:         "Jane",
		Email:        "jane@example.com",
		Phone:        "555",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = store.CreateUser(context.Background(), user)
	require.NoError(t, err)

	token, err := middleware.GenerateToken(user, &cfg.JWT)
	require.NoError(t, err)

	rec := doJSON(t, mux, http.MethodGet, "/user/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "User found", env.Message)

	var got struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, user.ID.String(), got.ID)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "ADMIN", got.Role)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestGetCurrentUserUnknownPrincipal(t *testing.T) {
	cfg := testConfig()
	mux := newTestMux(cfg, newMemStore())

	// Valid token for a user that no longer exists in storage
	ghost := models.User{ID: uuid.New(), Email: "ghost@example.com", Role: models.RoleUser}
	token, err := middleware.GenerateToken(ghost, &cfg.JWT)
	require.NoError(t, err)

	rec := doJSON(t, mux, http.MethodGet, "/user/me", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeEnvelope(t, rec).Message)
}

func TestAuthRequired(t *testing.T) {
	mux := newTestMux(testConfig(), newMemStore())

	for _, path := range []string{"/user/me", "/transactions"} {
		rec := doJSON(t, mux, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)

		// The auth layer answers with the plain error body, not the envelope
		assert.Contains(t, rec.Body.String(), `"error":"Unauthorized"`)
		assert.False(t, strings.Contains(rec.Body.String(), "statusCode"))
	}
}

func TestRegisterStoreFailure(t *testing.T) {
	store := newMemStore()
	mux := newTestMux(testConfig(), store)

	store.failNext = assert.AnError
	rec := doJSON(t, mux, http.MethodPost, "/register", "", registerPayload())
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Status)
	assert.Equal(t, "Internal server error", env.Message)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
