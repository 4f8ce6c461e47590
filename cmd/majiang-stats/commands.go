package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/majiang-league/majiang-stats/app"
	"github.com/majiang-league/majiang-stats/app/modules/standings"
	standingsservice "github.com/majiang-league/majiang-stats/app/modules/standings/application"
	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	"github.com/majiang-league/majiang-stats/app/shared/observability"
	"github.com/majiang-league/majiang-stats/config"
	"github.com/majiang-league/majiang-stats/db/bundb"
	"github.com/urfave/cli/v2"
)

func loadRuntime(c *cli.Context) (*config.Config, observability.Observability, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, observability.Observability{}, fmt.Errorf("failed to load config: %w", err)
	}
	obsCfg := config.ToObsConfig(cfg)
	if c.Command.Name != "serve" {
		// Keep stdout clean for command output.
		obsCfg.Output = os.Stderr
	}
	obs, err := observability.Init(c.Context, obsCfg)
	if err != nil {
		return nil, observability.Observability{}, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return cfg, obs, nil
}

// withService opens the database, builds the standings service without any
// transport and hands it to fn.
func withService(c *cli.Context, fn func(ctx context.Context, svc standingsservice.Service) error) error {
	cfg, obs, err := loadRuntime(c)
	if err != nil {
		return err
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	dbService, err := bundb.NewBunDBService(c.Context, cfg.Postgres, obs.Provider.Logger)
	if err != nil {
		return err
	}
	defer dbService.Close()

	module, err := standings.NewModule(c.Context, cfg, obs, nil, nil, dbService.GetDB())
	if err != nil {
		return err
	}
	return fn(c.Context, module.GetService())
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the HTTP API and NATS request subjects",
		Action: func(c *cli.Context) error {
			cfg, obs, err := loadRuntime(c)
			if err != nil {
				return err
			}

			application := &app.App{}
			if err := application.Initialize(c.Context, cfg, obs); err != nil {
				_ = obs.Shutdown(context.Background())
				return err
			}
			return application.Start(c.Context)
		},
	}
}

var tournamentFlag = &cli.Int64Flag{
	Name:     "tournament",
	Aliases:  []string{"t"},
	Usage:    "tournament id",
	Required: true,
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write a tournament's standings workbook",
		Flags: []cli.Flag{
			tournamentFlag,
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default tournament-<id>-standings.xlsx)"},
		},
		Action: func(c *cli.Context) error {
			id := standingsdomain.TournamentID(c.Int64("tournament"))
			out := c.String("out")
			if out == "" {
				out = fmt.Sprintf("tournament-%d-standings.xlsx", id)
			}
			return withService(c, func(ctx context.Context, svc standingsservice.Service) error {
				data, err := svc.ExportTournament(ctx, id)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write workbook: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
				return nil
			})
		},
	}
}

func newStandingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print a tournament's standings table",
		Flags: []cli.Flag{tournamentFlag},
		Action: func(c *cli.Context) error {
			id := standingsdomain.TournamentID(c.Int64("tournament"))
			return withService(c, func(ctx context.Context, svc standingsservice.Service) error {
				detail, err := svc.GetTournament(ctx, id)
				if err != nil {
					return err
				}
				return printStandings(c.App.Writer, detail)
			})
		},
	}
}

func newChartCommand() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "render a tournament progression chart or a player placement chart as PNG",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "tournament", Aliases: []string{"t"}, Usage: "tournament id"},
			&cli.Int64Flag{Name: "player", Aliases: []string{"p"}, Usage: "player id"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "chart.png", Usage: "output path"},
		},
		Action: func(c *cli.Context) error {
			tournamentID, playerID := c.Int64("tournament"), c.Int64("player")
			if (tournamentID == 0) == (playerID == 0) {
				return errors.New("exactly one of --tournament or --player is required")
			}
			return withService(c, func(ctx context.Context, svc standingsservice.Service) error {
				var (
					png []byte
					err error
				)
				if tournamentID != 0 {
					png, err = svc.TournamentChart(ctx, standingsdomain.TournamentID(tournamentID))
				} else {
					png, err = svc.PlayerPlacementChart(ctx, standingsdomain.PlayerID(playerID))
				}
				if err != nil {
					return err
				}
				if err := os.WriteFile(c.String("out"), png, 0o644); err != nil {
					return fmt.Errorf("failed to write chart: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "wrote %s\n", c.String("out"))
				return nil
			})
		},
	}
}

func printStandings(w io.Writer, detail *standingsdomain.TournamentDetail) error {
	fmt.Fprintf(w, "%s %s (%s, %s)\n\n", detail.Info.Name, detail.Info.SubName, detail.Info.Date, detail.Info.Location)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "Place\tPlayer\tPlace Points\tGame Points\tTable Points\t")
	for i := range detail.Sessions {
		fmt.Fprintf(tw, "R%d PP\t", i+1)
	}
	fmt.Fprintln(tw)

	for _, e := range detail.Summary {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%d\t%.1f\t", e.TournamentPlace, e.PlayerName,
			e.TotalPoint.PlacePoint, e.TotalPoint.GamePoint, e.TotalPoint.TablePoint)
		for _, r := range e.RoundPoint {
			fmt.Fprintf(tw, "%.1f\t", r.PlacePoint)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
