package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/ideagraph"
	"github.com/meikuraledutech/ideagraph/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, concept string) (*ideagraph.Roadmap, error) {
	return nil, errors.New("model unavailable")
}

func (failingGenerator) Expand(ctx context.Context, req ideagraph.ExpandRequest) (*ideagraph.Subgraph, error) {
	return nil, errors.New("model unavailable")
}

func setup(t *testing.T) (*fiber.App, *MemoryGallery) {
	t.Helper()
	gen, err := fixture.Load("../fixture/testdata/bitcoin.yaml")
	require.NoError(t, err)
	gallery := NewMemoryGallery()
	return New(gallery, gen, Options{AllowedOrigin: "http://localhost:5173"}), gallery
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestRoadmapGeneratesThenCaches(t *testing.T) {
	app, gallery := setup(t)

	resp, body := do(t, app, http.MethodPost, "/roadmap", `{"concept":"Bitcoin"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rm ideagraph.Roadmap
	require.NoError(t, json.Unmarshal(body, &rm))
	assert.Len(t, rm.Nodes, 4)
	assert.Len(t, rm.Edges, 3)

	items, err := gallery.Trending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bitcoin", items[0].Slug)
	assert.Equal(t, 1, items[0].Views)

	resp, body = do(t, app, http.MethodPost, "/roadmap", `{"concept":"bitcoin"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cached ideagraph.Roadmap
	require.NoError(t, json.Unmarshal(body, &cached))
	assert.Equal(t, rm, cached)

	items, err = gallery.Trending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Views)
}

func TestRoadmapRejectsShortConcept(t *testing.T) {
	app, _ := setup(t)

	resp, body := do(t, app, http.MethodPost, "/roadmap", `{"concept":"a"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "error")

	resp, _ = do(t, app, http.MethodPost, "/roadmap", `{"concept":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoadmapGeneratorFailure(t *testing.T) {
	app := New(NewMemoryGallery(), failingGenerator{}, Options{})

	resp, body := do(t, app, http.MethodPost, "/roadmap", `{"concept":"Bitcoin"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"model unavailable"}`, string(body))
}

func TestTrendingLimit(t *testing.T) {
	app, _ := setup(t)
	for _, c := range []string{"Bitcoin", "Rust", "Go"} {
		resp, _ := do(t, app, http.MethodPost, "/roadmap", `{"concept":"`+c+`"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	// Bitcoin gets a second view.
	do(t, app, http.MethodPost, "/roadmap", `{"concept":"Bitcoin"}`)

	resp, body := do(t, app, http.MethodGet, "/roadmap/trending?limit=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []ideagraph.TrendingItem
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "bitcoin", items[0].Slug)
	assert.Equal(t, 2, items[0].Views)

	_, body = do(t, app, http.MethodGet, "/roadmap/trending?limit=0", "")
	require.NoError(t, json.Unmarshal(body, &items))
	assert.Len(t, items, 3)
}

func TestExpand(t *testing.T) {
	app, _ := setup(t)

	resp, body := do(t, app, http.MethodPost, "/expand",
		`{"concept":"Bitcoin","parent_node":"Blockchain","parent_id":"3","context_type":"core"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sub ideagraph.Subgraph
	require.NoError(t, json.Unmarshal(body, &sub))
	require.Len(t, sub.Nodes, 2)
	assert.Equal(t, ideagraph.WireID("3.1"), sub.Nodes[0].ID)
	assert.Equal(t, ideagraph.WireID("3"), sub.Edges[0].Source)

	resp, _ = do(t, app, http.MethodPost, "/expand", `{"concept":"Bitcoin"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExpandFailure(t *testing.T) {
	app := New(NewMemoryGallery(), failingGenerator{}, Options{})

	resp, _ := do(t, app, http.MethodPost, "/expand",
		`{"concept":"Bitcoin","parent_node":"Blockchain","parent_id":"3"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	app, _ := setup(t)
	do(t, app, http.MethodPost, "/roadmap", `{"concept":"Bitcoin"}`)
	do(t, app, http.MethodPost, "/roadmap", `{"concept":"Bitcoin"}`)

	resp, body := do(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `ideagraph_roadmaps_served_total{source="cache"} 1`)
	assert.Contains(t, string(body), `ideagraph_roadmaps_served_total{source="generated"} 1`)
}

func TestCORS(t *testing.T) {
	app, _ := setup(t)

	req := httptest.NewRequest(http.MethodOptions, "/roadmap", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
