package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "trafficlight",
		Version: Version,
		Usage:   "Simulate a traffic light and the observers waiting for green",
		Commands: []*cli.Command{
			newRunCmd(),
			newValidateCmd(),
			versionCmd,
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
