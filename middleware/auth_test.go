package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kisancart/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsRecorder(t *testing.T, captured **utils.Claims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := UserFromContext(r)
		require.True(t, ok)
		*captured = claims
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/orders/buyer", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/orders/buyer", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/orders/buyer", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, err := utils.GenerateJWT("64f1c0ffee0000000000abcd", "buyer")
	require.NoError(t, err)

	var captured *utils.Claims
	handler := AuthMiddleware(claimsRecorder(t, &captured))

	req := httptest.NewRequest("GET", "/api/orders/buyer", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "64f1c0ffee0000000000abcd", captured.UserID)
	assert.Equal(t, "buyer", captured.Role)
}

func TestRequireRole_WrongRole(t *testing.T) {
	token, err := utils.GenerateJWT("someid", "buyer")
	require.NoError(t, err)

	handler := AuthMiddleware(RequireRole("farmer")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})))

	req := httptest.NewRequest("DELETE", "/api/crops/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_MatchingRole(t *testing.T) {
	token, err := utils.GenerateJWT("someid", "farmer")
	require.NoError(t, err)

	var captured *utils.Claims
	handler := AuthMiddleware(RequireRole("farmer")(claimsRecorder(t, &captured)))

	req := httptest.NewRequest("POST", "/api/crops/add", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "farmer", captured.Role)
}
