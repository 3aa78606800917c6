package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// initApp initializes the nbinom app.
func initApp() *cli.App {
	return &cli.App{
		Name:     "Negative Binomial sampler and scorer",
		HelpName: "nbinom",
		Usage:    "draws samples from and evaluates Negative Binomial distributions",
		Flags:    []cli.Flag{},
		Commands: []*cli.Command{
			&SampleCommand,
			&LogProbCommand,
		},
	}
}

// main implements the nbinom cli application.
func main() {
	app := initApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
