package main

import (
	"github.com/meikuraledutech/ideagraph/client"
	"github.com/meikuraledutech/ideagraph/render"
	"github.com/spf13/cobra"
)

var trendingLimit = client.DefaultTrendingLimit

func trendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List the most viewed concepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showTrending(cmd, trendingLimit)
			return nil
		},
	}
	cmd.Flags().IntVarP(&trendingLimit, "limit", "n", client.DefaultTrendingLimit, "number of concepts to list")
	return cmd
}

func showTrending(cmd *cobra.Command, limit int) {
	api := client.New(cfg.Backend.URL, cfg.Backend.Timeout, logger)
	render.New(cmd.OutOrStdout()).Trending(api.Trending(cmd.Context(), limit))
}
