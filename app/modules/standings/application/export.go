package standingsservice

import (
	"fmt"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	"github.com/xuri/excelize/v2"
)

const (
	StandingsSheet = "Standings"
	GamesSheet     = "Games"
)

// BuildStandingsWorkbook writes the tournament view into an xlsx workbook with
// one sheet for the ranked summary and one sheet listing every seat of every game.
func BuildStandingsWorkbook(detail *standingsdomain.TournamentDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StandingsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(GamesSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", GamesSheet, err)
	}

	if err := writeStandingsSheet(f, detail); err != nil {
		return nil, err
	}
	if err := writeGamesSheet(f, detail); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStandingsSheet(f *excelize.File, detail *standingsdomain.TournamentDetail) error {
	rounds := 0
	for _, e := range detail.Summary {
		rounds = max(rounds, len(e.RoundPoint))
	}

	title := detail.Info.Name
	if detail.Info.SubName != "" {
		title += " " + detail.Info.SubName
	}
	if err := setRow(f, StandingsSheet, 1, []any{title, detail.Info.Date, detail.Info.Location}); err != nil {
		return err
	}

	header := []any{"Place", "Player", "Place Points", "Game Points", "Table Points"}
	for i := 1; i <= rounds; i++ {
		header = append(header, fmt.Sprintf("Round %d PP", i), fmt.Sprintf("Round %d GP", i))
	}
	if err := setRow(f, StandingsSheet, 3, header); err != nil {
		return err
	}

	for i, e := range detail.Summary {
		row := []any{e.TournamentPlace, e.PlayerName, e.TotalPoint.PlacePoint, e.TotalPoint.GamePoint, e.TotalPoint.TablePoint}
		for _, rp := range e.RoundPoint {
			row = append(row, rp.PlacePoint, rp.GamePoint)
		}
		if err := setRow(f, StandingsSheet, 4+i, row); err != nil {
			return err
		}
	}
	return nil
}

func writeGamesSheet(f *excelize.File, detail *standingsdomain.TournamentDetail) error {
	header := []any{"Session", "Game", "Seat", "Player", "Table Point", "Game Point", "Place Point", "Forfeit Game Point"}
	if err := setRow(f, GamesSheet, 1, header); err != nil {
		return err
	}

	rowNum := 2
	for _, session := range detail.Sessions {
		for _, game := range session.Games {
			var forfeit any
			if game.ForfeitGamePoint != nil {
				forfeit = *game.ForfeitGamePoint
			}
			for seat, pr := range game.PlayerResults {
				row := []any{session.Info.Name, int64(game.ID), seat + 1, pr.PlayerName, pr.TablePoint, pr.GamePoint, pr.PlacePoint, forfeit}
				if err := setRow(f, GamesSheet, rowNum, row); err != nil {
					return err
				}
				rowNum++
			}
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
