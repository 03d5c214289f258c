package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/meikuraledutech/ideagraph/fixture"
	"github.com/meikuraledutech/ideagraph/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backend(t *testing.T) {
	t.Helper()
	gen, err := fixture.Load("../../fixture/testdata/bitcoin.yaml")
	require.NoError(t, err)
	srv := httptest.NewServer(adaptor.FiberApp(server.New(server.NewMemoryGallery(), gen, server.Options{})))
	t.Cleanup(srv.Close)
	t.Setenv("IDEAGRAPH_BACKEND_URL", srv.URL)
	t.Setenv("IDEAGRAPH_LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestExploreExpandsAndSelects(t *testing.T) {
	backend(t)

	out := run(t, "explore", "Bitcoin", "3", "--select", "3.1")
	assert.Equal(t, 1, strings.Count(out, "generating roadmap for"))
	assert.True(t, strings.HasPrefix(out, "generating roadmap for Bitcoin…\n"))
	assert.Contains(t, out, "6 nodes, 5 edges")
	assert.Contains(t, out, "Blockchain → Merkle Tree  uses")
	assert.Contains(t, out, "Merkle Tree\nCORE · Structure\n")
}

func TestOpenRoutes(t *testing.T) {
	backend(t)

	out := run(t, "open", "/search/Bitcoin")
	assert.Contains(t, out, "/search/Bitcoin")
	assert.Contains(t, out, "4 nodes, 3 edges")

	out = run(t, "open", "/nowhere")
	assert.Contains(t, out, "Bitcoin")
	assert.Contains(t, out, "VIEWS")
}

func TestSearchFailure(t *testing.T) {
	t.Setenv("IDEAGRAPH_BACKEND_URL", "http://127.0.0.1:1")
	t.Setenv("IDEAGRAPH_LOG_LEVEL", "error")

	out := run(t, "search", "Bitcoin")
	assert.Contains(t, out, "generating roadmap for Bitcoin…")
	assert.Contains(t, out, "Could not generate roadmap. Please try again.")
}
