package kobo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leak-priority-service/internal/config"
	apperrors "github.com/leak-priority-service/internal/pkg/errors"
)

func newTestClient(serverURL string) *client {
	return NewClient(&config.SourceConfig{
		APIURL:         serverURL,
		Token:          "Token abc123",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop()).(*client)
}

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token abc123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"_id": 101, "_submission_time": "2026-08-19T09:30:00", "leak_location": "41.3851 2.1734 12.0 4.5"},
			{"_id": 102, "_submission_time": "2026-08-19T10:00:00"}
		]`))
	}))
	defer server.Close()

	submissions, err := newTestClient(server.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	assert.Equal(t, "41.3851 2.1734 12.0 4.5", submissions[0]["leak_location"])
}

func TestClient_Fetch_EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	submissions, err := newTestClient(server.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, submissions)
}

func TestClient_Fetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
}

func TestClient_Fetch_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
}

func TestClient_Fetch_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": "not an array"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
}
