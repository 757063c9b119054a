package e2e_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftsListEmpty(t *testing.T) {
	ws := newTestWorkspace(t)

	out, err := ws.run("drafts", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No saved drafts.")
}

func TestDraftsListShowsSavedDraft(t *testing.T) {
	ws := newTestWorkspace(t)
	ws.writeDraft("feedstock", `{"current_step_index":1,"data":{"supplier":"Yamhill Orchards","quantity_kg":"1200"}}`)

	out, err := ws.run("drafts", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "feedstock")
	assert.Contains(t, out, "Quantity")
}

func TestDraftsDiscard(t *testing.T) {
	ws := newTestWorkspace(t)
	ws.writeDraft("production", `{"current_step_index":0,"data":{"batch_id":"B-1"}}`)

	out, err := ws.run("drafts", "discard", "production")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Discarded production draft.")

	_, statErr := os.Stat(filepath.Join(ws.DraftsDir, "entry-production.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPushWithoutRegistryFails(t *testing.T) {
	ws := newTestWorkspace(t)

	out, err := ws.run("push")
	assert.Error(t, err)
	assert.Contains(t, out, "no registry configured")
}

func TestPushSubmitsCompletedDraft(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ws := newTestWorkspace(t)
	ws.writeConfig(`
[storage]
backend = "file"
dir = "` + ws.DraftsDir + `"

[registry]
base_url = "` + srv.URL + `"
`)
	ws.writeDraft("sequestration", `{"current_step_index":3,"data":{"confirm_submit":true,"site_name":"North Field"}}`)
	ws.writeDraft("feedstock", `{"current_step_index":1,"data":{"supplier":"in progress"}}`)

	out, err := ws.run("push")
	require.NoError(t, err, out)
	assert.Contains(t, out, "submitted sequestration")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, paths, 1, "only the completed draft is pushed")
	assert.Equal(t, "/api/v1/entries/sequestration", paths[0])

	// The submitted draft is removed; the in-progress one stays.
	_, statErr := os.Stat(filepath.Join(ws.DraftsDir, "entry-sequestration.json"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(ws.DraftsDir, "entry-feedstock.json"))
	assert.NoError(t, statErr)
}
