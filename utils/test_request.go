package utils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRequest performs a request against a test server and returns the response with its body
func TestRequest(t *testing.T, ts *httptest.Server, method, path string, headers map[string]string, body io.Reader) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	req.Header.Set("Accept-Encoding", "identity")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(respBody)
}

// BearerHeader builds an Authorization header for a freshly signed token
func BearerHeader(t *testing.T, email, role, riderID string) map[string]string {
	token, err := GenerateJWT(email, role, riderID)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}
