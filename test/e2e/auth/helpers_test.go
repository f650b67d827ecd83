package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/univc/univc-auth/internal/auth/domain"
	httpapi "github.com/univc/univc-auth/internal/auth/http"
	"github.com/univc/univc-auth/internal/auth/service"
	"github.com/univc/univc-auth/internal/auth/store/drivers/sqlite"
	"github.com/univc/univc-auth/pkg/cryptox"
	"github.com/univc/univc-auth/pkg/idx"
	"github.com/univc/univc-auth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * Common constants and helper functions for the auth service end-to-end
 * tests. The whole stack runs in-process against an in-memory SQLite store,
 * behind a real httptest server so requests travel through the full router
 * and middleware chain.
 */

const (
	testSecret   = "e2e-test-secret-0123456789abcdef"
	userEmail    = "alice@student.univc.edu"
	userName     = "Alice Example"
	userPassword = "Sup3rS3cret!pass"
)

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	SessionID    string `json:"session_id"`
}

type testServer struct {
	*httptest.Server
	tokens *service.TokenService
	users  *service.UserService
	userID string
}

// setupAuthServer wires the full service against a fresh in-memory store and
// seeds one enabled user.
func setupAuthServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec(testSecret, "HS256")
	require.NoError(t, err)

	tokens := &service.TokenService{
		Codec:      codec,
		Store:      st,
		Issuer:     "univc-auth",
		Audience:   "univc-api",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
	users := &service.UserService{Store: st}

	hash, err := cryptox.HashPassword(userPassword)
	require.NoError(t, err)

	userID := idx.New().String()
	require.NoError(t, st.Users().CreateUser(context.Background(), domain.User{
		ID:           userID,
		Email:        userEmail,
		Name:         userName,
		PasswordHash: hash,
		Enabled:      true,
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := httpapi.NewRouter("test", st, logger)
	router.TokenService = tokens
	router.UserService = users
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, tokens: tokens, users: users, userID: userID}
}

// postJSON sends a JSON POST and decodes the response body into out (if
// non-nil), returning the status code.
func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// getWithBearer sends a GET with the given access token and decodes the
// response into out on 200.
func getWithBearer(t *testing.T, url, accessToken string, out any) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// login authenticates the seeded user and returns the token pair.
func login(t *testing.T, srv *testServer) tokenPairResponse {
	t.Helper()

	var pair tokenPairResponse
	code := postJSON(t, srv.URL+"/v1/auth/login", map[string]string{
		"email":    userEmail,
		"password": userPassword,
	}, &pair)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)
	return pair
}
