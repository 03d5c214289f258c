// Package client talks to the roadmap backend over HTTP.
package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3/client"
	"github.com/meikuraledutech/ideagraph"
	"go.uber.org/zap"
)

// DefaultTrendingLimit is the gallery size the backend returns by default.
const DefaultTrendingLimit = 10

// Client implements ideagraph.Backend.
type Client struct {
	http   *client.Client
	logger *zap.Logger
}

// New creates a Client for the backend at baseURL. A zero timeout waits
// as long as the request context allows.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := client.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		AddHeader("Content-Type", "application/json")
	if timeout > 0 {
		hc.SetTimeout(timeout)
	}
	return &Client{http: hc, logger: logger}
}

// Roadmap fetches the initial graph of concept.
func (c *Client) Roadmap(ctx context.Context, concept string) (*ideagraph.Roadmap, error) {
	var rm ideagraph.Roadmap
	if err := c.post(ctx, "roadmap", "/roadmap", ideagraph.RoadmapRequest{Concept: concept}, &rm); err != nil {
		c.logger.Error("roadmap fetch failed", zap.String("concept", concept), zap.Error(err))
		return nil, err
	}
	return &rm, nil
}

// Expand fetches the subgraph rooted at req's parent node.
func (c *Client) Expand(ctx context.Context, req ideagraph.ExpandRequest) (*ideagraph.Subgraph, error) {
	var sub ideagraph.Subgraph
	if err := c.post(ctx, "expand", "/expand", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Trending fetches the concept gallery. Any failure is logged and yields
// an empty gallery.
func (c *Client) Trending(ctx context.Context, limit int) []ideagraph.TrendingItem {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	resp, err := c.http.Get("/roadmap/trending", client.Config{
		Ctx:   ctx,
		Param: map[string]string{"limit": strconv.Itoa(limit)},
	})
	if err != nil {
		c.logger.Warn("trending fetch failed", zap.Error(err))
		return []ideagraph.TrendingItem{}
	}
	defer resp.Close()

	if s := resp.StatusCode(); s < 200 || s > 299 {
		c.logger.Warn("trending fetch failed", zap.Int("status", s))
		return []ideagraph.TrendingItem{}
	}
	var items []ideagraph.TrendingItem
	if err := resp.JSON(&items); err != nil {
		c.logger.Warn("trending decode failed", zap.Error(err))
		return []ideagraph.TrendingItem{}
	}
	if items == nil {
		items = []ideagraph.TrendingItem{}
	}
	return items
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	resp, err := c.http.Post(path, client.Config{Ctx: ctx, Body: body})
	if err != nil {
		return &ideagraph.NetworkError{Op: op, Err: err}
	}
	defer resp.Close()

	if s := resp.StatusCode(); s < 200 || s > 299 {
		return &ideagraph.NetworkError{Op: op, Status: s}
	}
	if err := resp.JSON(out); err != nil {
		return &ideagraph.NetworkError{Op: op, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
