package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "majiang-stats",
		Usage: "mahjong league standings service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"MAJIANG_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newExportCommand(),
			newStandingsCommand(),
			newChartCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal(fmt.Errorf("majiang-stats: %w", err))
	}
}
