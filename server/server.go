// Package server is a reference implementation of the roadmap backend:
// it caches generated roadmaps in a gallery and serves them over HTTP.
package server

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/meikuraledutech/ideagraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// DefaultTrendingLimit is used when /roadmap/trending has no usable limit.
const DefaultTrendingLimit = 10

// Options configures New.
type Options struct {
	// AllowedOrigin is the front-end origin allowed by CORS. Empty disables CORS.
	AllowedOrigin string
	Logger        *zap.Logger
}

type structValidator struct {
	validate *validator.Validate
}

func (v structValidator) Validate(out any) error {
	return v.validate.Struct(out)
}

type metrics struct {
	roadmaps   *prometheus.CounterVec
	expansions prometheus.Counter
	failures   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		roadmaps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ideagraph_roadmaps_served_total",
			Help: "Roadmaps served, by source (cache or generated).",
		}, []string{"source"}),
		expansions: f.NewCounter(prometheus.CounterOpts{
			Name: "ideagraph_expansions_total",
			Help: "Subgraphs generated for node expansion.",
		}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ideagraph_failures_total",
			Help: "Failed requests, by route.",
		}, []string{"route"}),
	}
}

type handler struct {
	gallery ideagraph.Gallery
	gen     ideagraph.Generator
	logger  *zap.Logger
	metrics *metrics
}

// New builds the fiber app serving /roadmap, /roadmap/trending, /expand
// and /metrics.
func New(gallery ideagraph.Gallery, gen ideagraph.Generator, opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	h := &handler{gallery: gallery, gen: gen, logger: logger, metrics: newMetrics(reg)}

	app := fiber.New(fiber.Config{
		AppName:         "ideagraph",
		StructValidator: structValidator{validate: validator.New()},
	})
	app.Use(requestLogger(logger))
	if opts.AllowedOrigin != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     []string{opts.AllowedOrigin},
			AllowCredentials: true,
		}))
	}

	// ── Roadmaps ──────────────────────────────────────────────────────
	app.Post("/roadmap", h.roadmap)
	app.Get("/roadmap/trending", h.trending)

	// ── Expansion ─────────────────────────────────────────────────────
	app.Post("/expand", h.expand)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return app
}

func (h *handler) roadmap(c fiber.Ctx) error {
	var req ideagraph.RoadmapRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}

	slug := ideagraph.Slug(req.Concept)
	cached, err := h.gallery.Hit(c.Context(), slug)
	if err != nil {
		return h.fail(c, "roadmap", err)
	}
	if cached != nil {
		h.logger.Info("serving roadmap from gallery", zap.String("concept", req.Concept))
		h.metrics.roadmaps.WithLabelValues("cache").Inc()
		return c.JSON(cached)
	}

	h.logger.Info("generating roadmap", zap.String("concept", req.Concept))
	rm, err := h.gen.Generate(c.Context(), req.Concept)
	if err != nil {
		return h.fail(c, "roadmap", err)
	}
	if err := h.gallery.Save(c.Context(), slug, req.Concept, rm); err != nil {
		return h.fail(c, "roadmap", err)
	}
	h.metrics.roadmaps.WithLabelValues("generated").Inc()
	return c.JSON(rm)
}

func (h *handler) trending(c fiber.Ctx) error {
	limit := fiber.Query[int](c, "limit", DefaultTrendingLimit)
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	items, err := h.gallery.Trending(c.Context(), limit)
	if err != nil {
		return h.fail(c, "trending", err)
	}
	return c.JSON(items)
}

func (h *handler) expand(c fiber.Ctx) error {
	var req ideagraph.ExpandRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}

	sub, err := h.gen.Expand(c.Context(), req)
	if err != nil {
		return h.fail(c, "expand", err)
	}
	if sub == nil {
		sub = &ideagraph.Subgraph{Nodes: []ideagraph.WireNode{}, Edges: []ideagraph.WireEdge{}}
	}
	h.metrics.expansions.Inc()
	return c.JSON(sub)
}

func (h *handler) fail(c fiber.Ctx, route string, err error) error {
	h.logger.Error("request failed", zap.String("route", route), zap.Error(err))
	h.metrics.failures.WithLabelValues(route).Inc()
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verrs.Error()})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("HTTP Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remoteAddr", c.IP()),
		)
		return err
	}
}
