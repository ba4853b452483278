package llmhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct {
	Value string `json:"value"`
}

func TestNew_TrimsBaseURL(t *testing.T) {
	c := New("test", "http://example.com/v1/", time.Second, nil)

	assert.Equal(t, "http://example.com/v1", c.BaseURL())
}

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Key"))

		var in echo
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(echo{Value: strings.ToUpper(in.Value)})
	}))
	defer server.Close()

	c := New("test", server.URL, time.Second, http.Header{"X-Key": {"secret"}})

	var out echo
	err := c.Post(context.Background(), "/echo", echo{Value: "hi"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "HI", out.Value)
}

func TestClient_Get_NilOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	err := New("test", server.URL, time.Second, nil).Get(context.Background(), "/", nil)

	assert.NoError(t, err)
}

func TestClient_StatusError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantMessage  string
		unauthorized bool
		rateLimited  bool
	}{
		{"nested message", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, "bad key", true, false},
		{"string error", http.StatusNotFound, `{"error":"model missing"}`, "model missing", false, false},
		{"plain text", http.StatusBadGateway, "  upstream down \n", "upstream down", false, false},
		{"rate limited", http.StatusTooManyRequests, `{}`, "{}", false, true},
		{"forbidden", http.StatusForbidden, ``, "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := New("test", server.URL, time.Second, nil).Get(context.Background(), "/", nil)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.wantMessage, se.Message)
			assert.Equal(t, tt.unauthorized, se.Unauthorized())
			assert.Equal(t, tt.rateLimited, se.RateLimited())
			assert.Contains(t, err.Error(), "test: status")
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{`))
	}))
	defer server.Close()

	var out echo
	err := New("test", server.URL, time.Second, nil).Get(context.Background(), "/", &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := New("test", url, time.Second, nil).Get(context.Background(), "/", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send request")
}

func TestErrorMessage_Truncates(t *testing.T) {
	long := strings.Repeat("x", maxMessage+50)

	msg := errorMessage([]byte(long))

	assert.Len(t, msg, maxMessage+3)
	assert.True(t, strings.HasSuffix(msg, "..."))
}
