package main

import (
	"github.com/meikuraledutech/ideagraph/expand"
	"github.com/meikuraledutech/ideagraph/interaction"
	"github.com/meikuraledutech/ideagraph/render"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

func exploreCmd() *cobra.Command {
	var (
		selectID    string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "explore <concept> [node-id...]",
		Short: "Open a concept and expand the given nodes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			r := render.New(out)

			layer := interaction.New(len(args) - 1)
			coord := newCoordinator(expand.WithReporter(layer), expand.WithConcurrency(concurrency))

			r.Loading(args[0])
			snap, err := coord.Open(ctx, args[0])
			if err != nil {
				r.Error(render.SearchFailed)
				return nil
			}

			var g errgroup.Group
			g.Go(func() error { return coord.Serve(ctx, layer.Requests()) })

			for _, id := range args[1:] {
				node, ok := snap.NodeByID(id)
				if !ok {
					logger.Warn("unknown node", zap.String("node", id))
					continue
				}
				layer.EnterNode(id)
				if layer.ExpandVisible(id) {
					layer.ClickExpand(node)
				}
				layer.LeaveNode(id)
			}
			layer.Close()
			if err := g.Wait(); err != nil {
				return err
			}

			final := coord.Snapshot()
			r.Graph(final.Graph)

			if f, ok := layer.LastFailure(); ok {
				render.Subtle.Fprintf(out, "expansion of #%s failed: %v\n", f.NodeID, f.Err)
			}
			if selectID != "" {
				if node, ok := final.NodeByID(selectID); ok {
					layer.ClickNode(node)
				}
				if sel, ok := layer.Selected(); ok {
					r.Detail(sel)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&selectID, "select", "", "node id to show in the detail panel")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "maximum concurrent expansions (0 = unlimited)")
	return cmd
}
