package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
)

func testConfig(baseURL string) config.RegistryConfig {
	return config.RegistryConfig{
		BaseURL:         baseURL,
		TimeoutSeconds:  5,
		PushConcurrency: 3,
	}
}

// --- Construction ---

func TestNewClient_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.RegistryConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestNewClient_RejectsMalformedBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient(testConfig("not a url"))
	require.Error(t, err)
}

// --- SubmitEntry ---

func TestSubmitEntry_PostsJSONToFlowEndpoint(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotContentType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), WithToken("secret-token"))
	require.NoError(t, err)

	payload := map[string]any{"feedstock_type": "walnut shells", "quantity_kg": float64(1200)}
	err = c.SubmitEntry(context.Background(), "feedstock", payload)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/entries/feedstock", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, payload, gotBody)
}

func TestSubmitEntry_NoAuthorizationHeaderWithoutToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	require.NoError(t, c.SubmitEntry(context.Background(), "production", nil))
	assert.Empty(t, gotAuth)
}

func TestSubmitEntry_RejectionIncludesStatusAndBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"quantity_kg must be positive"}`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	err = c.SubmitEntry(context.Background(), "feedstock", map[string]any{"quantity_kg": float64(-1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "quantity_kg must be positive")
}

func TestSubmitEntry_EmptyFlowRejected(t *testing.T) {
	t.Parallel()

	c, err := NewClient(testConfig("http://localhost:1"))
	require.NoError(t, err)

	err = c.SubmitEntry(context.Background(), "", nil)
	require.Error(t, err)
}

func TestSubmitEntry_FlowNameIsPathEscaped(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	require.NoError(t, c.SubmitEntry(context.Background(), "feedstock/../admin", nil))
	assert.Equal(t, "/api/v1/entries/feedstock%2F..%2Fadmin", gotPath)
}

// --- PushAll ---

func TestPushAll_SubmitsEveryDraft(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := map[string]int{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.Path]++
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	drafts := []Draft{
		{Key: "feedstock-1", Flow: "feedstock", Payload: map[string]any{"a": "1"}},
		{Key: "production-1", Flow: "production", Payload: map[string]any{"b": "2"}},
		{Key: "sequestration-1", Flow: "sequestration", Payload: map[string]any{"c": "3"}},
	}

	results, err := c.PushAll(context.Background(), drafts, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, drafts[i].Key, res.Key)
		assert.NoError(t, res.Err)
	}
	assert.Equal(t, 1, seen["/api/v1/entries/feedstock"])
	assert.Equal(t, 1, seen["/api/v1/entries/production"])
	assert.Equal(t, 1, seen["/api/v1/entries/sequestration"])
}

func TestPushAll_PerDraftFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/entries/production" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	drafts := []Draft{
		{Key: "feedstock-1", Flow: "feedstock"},
		{Key: "production-1", Flow: "production"},
		{Key: "sequestration-1", Flow: "sequestration"},
	}

	results, err := c.PushAll(context.Background(), drafts, 1)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
}

func TestPushAll_EmptyBatchIsNoop(t *testing.T) {
	t.Parallel()

	c, err := NewClient(testConfig("http://localhost:1"))
	require.NoError(t, err)

	results, err := c.PushAll(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Nil(t, results)
}
