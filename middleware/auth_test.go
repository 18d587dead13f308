package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-logistics/models"
	"go-logistics/utils"
)

func echoClaims(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		require.True(t, ok)
		w.Write([]byte(claims.Email + "/" + claims.Role))
	})
}

func token(t *testing.T, role string) string {
	tok, err := utils.GenerateJWT("someone@example.com", role, "")
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	utils.JwtKey = []byte("test-secret")

	testCases := []struct {
		testName     string
		header       string
		query        string
		ws           bool
		expectedCode int
		expectedBody string
	}{
		{
			testName:     "Should require a header",
			expectedCode: http.StatusUnauthorized,
			expectedBody: "Authorization header missing\n",
		},
		{
			testName:     "Should reject a non Bearer scheme",
			header:       "Basic abc",
			expectedCode: http.StatusUnauthorized,
			expectedBody: "Invalid Authorization header format\n",
		},
		{
			testName:     "Should reject a garbage token",
			header:       "Bearer abc.def.ghi",
			expectedCode: http.StatusUnauthorized,
			expectedBody: "Invalid token\n",
		},
		{
			testName:     "Should accept a valid token",
			header:       "Bearer " + token(t, models.RoleAdmin),
			expectedCode: http.StatusOK,
			expectedBody: "someone@example.com/admin",
		},
		{
			testName:     "Should ignore the query token on plain routes",
			query:        token(t, models.RoleAdmin),
			expectedCode: http.StatusUnauthorized,
			expectedBody: "Authorization header missing\n",
		},
		{
			testName:     "Should accept the query token on websocket routes",
			query:        token(t, models.RoleRider),
			ws:           true,
			expectedCode: http.StatusOK,
			expectedBody: "someone@example.com/rider",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			target := "/resource"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			handler := AuthMiddleware(echoClaims(t))
			if tc.ws {
				handler = WSAuthMiddleware(echoClaims(t))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.Equal(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func TestTokenSignedWithAnotherKey(t *testing.T) {
	utils.JwtKey = []byte("other-secret")
	tok := token(t, models.RoleAdmin)
	utils.JwtKey = []byte("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	AuthMiddleware(echoClaims(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleMiddleware(t *testing.T) {
	utils.JwtKey = []byte("test-secret")

	testCases := []struct {
		testName     string
		role         string
		handler      func(http.Handler) http.Handler
		expectedCode int
	}{
		{testName: "admin passes admin check", role: models.RoleAdmin, handler: AdminMiddleware, expectedCode: http.StatusOK},
		{testName: "rider fails admin check", role: models.RoleRider, handler: AdminMiddleware, expectedCode: http.StatusForbidden},
		{testName: "rider passes rider check", role: models.RoleRider, handler: RoleMiddleware(models.RoleRider, models.RoleAdmin), expectedCode: http.StatusOK},
		{testName: "admin passes rider check", role: models.RoleAdmin, handler: RoleMiddleware(models.RoleRider, models.RoleAdmin), expectedCode: http.StatusOK},
		{testName: "customer fails rider check", role: models.RoleUser, handler: RoleMiddleware(models.RoleRider, models.RoleAdmin), expectedCode: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/resource", nil)
			req.Header.Set("Authorization", "Bearer "+token(t, tc.role))
			rec := httptest.NewRecorder()

			AuthMiddleware(tc.handler(echoClaims(t))).ServeHTTP(rec, req)
			assert.Equal(t, tc.expectedCode, rec.Code)
		})
	}

	t.Run("no claims at all", func(t *testing.T) {
		rec := httptest.NewRecorder()
		AdminMiddleware(echoClaims(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resource", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
