package main

import (
	"github.com/meikuraledutech/ideagraph"
	"github.com/meikuraledutech/ideagraph/client"
	"github.com/meikuraledutech/ideagraph/config"
	"github.com/meikuraledutech/ideagraph/expand"
	"github.com/meikuraledutech/ideagraph/layout"
	"github.com/meikuraledutech/ideagraph/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "ideagraph",
	Short:         "ideagraph: explore concepts as growing graphs",
	Long:          render.Origin.Sprint("ideagraph") + ": search a concept, then expand its nodes into new subgraphs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		l, err := c.Log.NewLogger()
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.AddCommand(serveCmd(), searchCmd(), openCmd(), trendingCmd(), exploreCmd())
}

// newCoordinator wires a client, a fresh store and the configured layout.
func newCoordinator(opts ...expand.Option) *expand.Coordinator {
	api := client.New(cfg.Backend.URL, cfg.Backend.Timeout, logger)
	store := ideagraph.NewGraphStore(logger)
	opts = append([]expand.Option{expand.WithLogger(logger)}, opts...)
	return expand.New(store, api, layout.Func(cfg.Layout, logger), opts...)
}
