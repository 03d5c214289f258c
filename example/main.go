// Command example walks through a session end to end: it serves the
// bundled fixtures in-process, opens a concept, expands one node through
// the interaction layer and prints every step.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"
	"os"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/meikuraledutech/ideagraph"
	"github.com/meikuraledutech/ideagraph/client"
	"github.com/meikuraledutech/ideagraph/expand"
	"github.com/meikuraledutech/ideagraph/fixture"
	"github.com/meikuraledutech/ideagraph/interaction"
	"github.com/meikuraledutech/ideagraph/layout"
	"github.com/meikuraledutech/ideagraph/render"
	"github.com/meikuraledutech/ideagraph/server"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	fixtures := "fixture/testdata/bitcoin.yaml"
	if len(os.Args) > 1 {
		fixtures = os.Args[1]
	}
	gen, err := fixture.Load(fixtures)
	if err != nil {
		log.Fatalf("fixtures: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// Wire the reference backend behind an in-process HTTP server.
	srv := httptest.NewServer(adaptor.FiberApp(server.New(server.NewMemoryGallery(), gen, server.Options{Logger: logger})))
	defer srv.Close()

	r := render.New(os.Stdout)
	api := client.New(srv.URL, 0, logger)
	layer := interaction.New(1)
	coord := expand.New(ideagraph.NewGraphStore(logger), api, layout.Func(layout.DefaultOptions(), logger),
		expand.WithLogger(logger),
		expand.WithReporter(layer),
	)

	// ── Search ────────────────────────────────────────────────────────
	route := ideagraph.ParseRoute(ideagraph.SearchPath("Bitcoin"))
	snap, err := coord.Open(ctx, route.Concept)
	if err != nil {
		r.Error(render.SearchFailed)
		os.Exit(1)
	}
	fmt.Println("opened", route.Concept)
	r.Graph(snap.Graph)

	// ── Select ────────────────────────────────────────────────────────
	node, _ := snap.NodeByID("3")
	layer.ClickNode(node)
	if sel, ok := layer.Selected(); ok {
		fmt.Println()
		r.Detail(sel)
	}

	// ── Expand ────────────────────────────────────────────────────────
	done := make(chan error, 1)
	go func() { done <- coord.Serve(ctx, layer.Requests()) }()

	layer.EnterNode(node.ID)
	if layer.ExpandVisible(node.ID) {
		layer.ClickExpand(node)
	}
	layer.Close()
	if err := <-done; err != nil {
		log.Fatalf("serve: %v", err)
	}
	fmt.Println()
	fmt.Println("expanded", node.Label, "→", coord.State(node.ID))
	r.Graph(coord.Snapshot().Graph)

	// ── Hover an edge ─────────────────────────────────────────────────
	for _, e := range coord.Snapshot().Edges {
		if e.Source == node.ID {
			layer.EnterEdge(e, interaction.Point{X: 10, Y: 10})
			break
		}
	}
	if tip, ok := layer.Tooltip(); ok {
		fmt.Println()
		r.Tooltip(tip)
	}

	// ── Trending ──────────────────────────────────────────────────────
	fmt.Println()
	r.Trending(api.Trending(ctx, client.DefaultTrendingLimit))
}
