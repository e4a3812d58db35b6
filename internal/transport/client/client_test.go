package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/monitoring"
)

type echoResponse struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Query     string `json:"query"`
	UserAgent string `json:"userAgent"`
	Auth      string `json:"auth"`
	Name      string `json:"name"`
}

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := echoResponse{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			UserAgent: r.UserAgent(),
			Auth:      r.Header.Get("Authorization"),
		}
		if r.Method == http.MethodPost {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			resp.Name = body["name"]
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_PostJSON(t *testing.T) {
	srv := newEchoServer(t)
	c := New(Options{Provider: "test", BaseURL: srv.URL + "/", UserAgent: "Mozilla/5.0"})

	var out echoResponse
	err := c.PostJSON(context.Background(), "/items", map[string]string{"name": "fox"},
		map[string]string{"Authorization": "Bearer abc"}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, out.Method)
	assert.Equal(t, "/items", out.Path)
	assert.Equal(t, "fox", out.Name)
	assert.Equal(t, "Mozilla/5.0", out.UserAgent)
	assert.Equal(t, "Bearer abc", out.Auth)
}

func TestClient_GetJSON(t *testing.T) {
	srv := newEchoServer(t)
	c := New(Options{Provider: "test", BaseURL: srv.URL})

	var out echoResponse
	err := c.GetJSON(context.Background(), "/status?id=o1", map[string]string{"User-Agent": "custom"}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, out.Method)
	assert.Equal(t, "id=o1", out.Query)
	assert.Equal(t, "custom", out.UserAgent)
}

func TestClient_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	metrics := monitoring.NewMetrics()
	c := New(Options{Provider: "studio", BaseURL: srv.URL, Metrics: metrics})

	var out map[string]any
	err := c.GetJSON(context.Background(), "/x?token=secret", nil, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotContains(t, err.Error(), "secret")
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.UpstreamDuration))
}

func TestClient_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Options{Provider: "mail", BaseURL: url})
	var out map[string]any
	err := c.GetJSON(context.Background(), "/", nil, &out)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_NonSuccessStatusStillDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"expired"}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/", nil, &out))
	assert.Equal(t, "expired", out.Message)
}

func TestClient_Fetch(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("<html>approved</html>"))
	}))
	defer srv.Close()

	c := New(Options{UserAgent: "Mozilla/5.0"})
	require.NoError(t, c.Fetch(context.Background(), srv.URL+"/approve?tokenId=t-1", nil))
	assert.Equal(t, "Mozilla/5.0", gotUA)
	assert.Equal(t, "tokenId=t-1", gotQuery)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := newEchoServer(t)
	c := New(Options{BaseURL: srv.URL, RateLimit: 0.001, RateBurst: 1})

	var out echoResponse
	require.NoError(t, c.GetJSON(context.Background(), "/", nil, &out))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.GetJSON(ctx, "/", nil, &out)
	assert.ErrorIs(t, err, domain.ErrTransport)
}
