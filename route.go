package ideagraph

import (
	"net/url"
	"regexp"
	"strings"
)

// RouteKind is a view of the application shell.
type RouteKind int

const (
	RouteHome RouteKind = iota
	RouteSearch
)

// Route is a resolved shell path.
type Route struct {
	Kind    RouteKind
	Concept string
}

// ParseRoute resolves "/" and "/search/:concept". Anything else, including
// a search path with an undecodable or empty concept, redirects home.
func ParseRoute(path string) Route {
	if path == "" || path == "/" {
		return Route{Kind: RouteHome}
	}
	rest, ok := strings.CutPrefix(path, "/search/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return Route{Kind: RouteHome}
	}
	concept, err := url.PathUnescape(rest)
	if err != nil || strings.TrimSpace(concept) == "" {
		return Route{Kind: RouteHome}
	}
	return Route{Kind: RouteSearch, Concept: concept}
}

// SearchPath is the graph view path of concept.
func SearchPath(concept string) string {
	return "/search/" + url.PathEscape(concept)
}

var slugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a concept into its URL-friendly gallery key.
func Slug(concept string) string {
	s := strings.ToLower(strings.TrimSpace(concept))
	s = strings.Trim(slugRun.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "concept"
	}
	return s
}
