package platform_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nt/internal/platform"
	"github.com/aretw0/nt/pkg/adapters/memory"
	"github.com/aretw0/nt/pkg/config"
	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/nt"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0755))
	return &config.Config{
		Logseq: config.Logseq{Repo: dir, Endpoint: "http://127.0.0.1:1/api", Token: "secret"},
		Filter: map[string]string{"tasks": "^TODO"},
	}
}

func TestNew_DryRun(t *testing.T) {
	cfg := testConfig(t)
	svc, err := platform.New(cfg, platform.WithDryRun(true))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.Post(ctx, "Dune", strings.NewReader("- spice"), nt.PostOptions{})
	require.NoError(t, err)

	state := svc.State().(nt.ServiceState)
	assert.Equal(t, "memory", state.GraphType)

	_, err = svc.Write(ctx, "Dune", strings.NewReader("- x"), nt.WriteOptions{})
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.Equal(t, cfg.Filter, svc.Filters())
}

func TestNew_InjectedGraph(t *testing.T) {
	g := memory.New()
	svc, err := platform.New(testConfig(t), platform.WithGraph(g))
	require.NoError(t, err)
	assert.Same(t, g, svc.Graph())

	_, err = platform.New(nil)
	assert.Error(t, err)
}

func TestNew_Logseq(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req struct {
			Method string `json:"method"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.Method {
		case "logseq.Editor.getAllPages":
			w.Write([]byte(`[{"id": 1, "name": "dune", "originalName": "Dune"}]`))
		default:
			w.Write([]byte(`null`))
		}
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Logseq.Endpoint = server.URL
	svc, err := platform.New(cfg, platform.WithHTTPClient(server.Client()), platform.WithReadOnly(true))
	require.NoError(t, err)

	names, err := svc.Pages(context.Background(), nt.KindRegular, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, names)
	assert.Equal(t, "logseq", svc.State().(nt.ServiceState).GraphType)
}
