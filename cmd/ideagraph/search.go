package main

import (
	"net/url"

	"github.com/meikuraledutech/ideagraph"
	"github.com/meikuraledutech/ideagraph/render"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <concept>",
		Short: "Generate and draw the roadmap of a concept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search(cmd, args[0])
			return nil
		},
	}
}

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Resolve an app route such as /search/Bitcoin and show it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if u, err := url.Parse(path); err == nil && u.Path != "" {
				path = u.EscapedPath()
			}
			route := ideagraph.ParseRoute(path)
			if route.Kind == ideagraph.RouteSearch {
				search(cmd, route.Concept)
				return nil
			}
			showTrending(cmd, trendingLimit)
			return nil
		},
	}
}

func search(cmd *cobra.Command, concept string) {
	r := render.New(cmd.OutOrStdout())
	coord := newCoordinator()
	r.Loading(concept)
	snap, err := coord.Open(cmd.Context(), concept)
	if err != nil {
		r.Error(render.SearchFailed)
		return
	}
	render.Subtle.Fprintln(cmd.OutOrStdout(), ideagraph.SearchPath(concept))
	r.Graph(snap.Graph)
}
