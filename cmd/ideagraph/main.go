package main

import (
	"os"

	"github.com/meikuraledutech/ideagraph/render"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		render.Bad.Fprintf(os.Stderr, "ideagraph: %v\n", err)
		os.Exit(1)
	}
}
