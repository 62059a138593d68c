package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestGet verifies the happy path and the User-Agent header.
func TestGet(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "winestream-updater/test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("payload"))
	}))
	defer ts.Close()

	client := NewClient(5*time.Second, "winestream-updater/test")

	body, err := client.Get(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), body)
}

// TestGet_BadStatus ensures non-200 responses surface as errors.
func TestGet_BadStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(5*time.Second, "winestream-updater/test")

	_, err := client.Get(context.Background(), ts.URL)
	require.ErrorIs(t, err, errBadHTTPStatus)
}
