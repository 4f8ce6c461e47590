package standingsservice

import (
	"bytes"
	"fmt"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colours used by every chart.
type ChartPalette struct {
	Background drawing.Color
	Text       drawing.Color
	Lines      []drawing.Color
}

// DefaultPalette is a light background with a repeating set of line colours.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("fbfaf5"),
	Text:       drawing.ColorFromHex("2b2b2b"),
	Lines: []drawing.Color{
		drawing.ColorFromHex("1f6f5c"),
		drawing.ColorFromHex("c0392b"),
		drawing.ColorFromHex("2e86c1"),
		drawing.ColorFromHex("d4ac0d"),
		drawing.ColorFromHex("7d3c98"),
		drawing.ColorFromHex("ca6f1e"),
		drawing.ColorFromHex("566573"),
		drawing.ColorFromHex("17a589"),
	},
}

func (p ChartPalette) line(i int) drawing.Color {
	if len(p.Lines) == 0 {
		return p.Text
	}
	return p.Lines[i%len(p.Lines)]
}

// GenerateTournamentChart produces a PNG line chart with one line per player
// tracing cumulative placement points round by round.
func GenerateTournamentChart(detail *standingsdomain.TournamentDetail, palette ChartPalette) ([]byte, error) {
	rounds := 0
	for _, e := range detail.Summary {
		rounds = max(rounds, len(e.RoundPoint))
	}
	if rounds == 0 {
		return renderNoDataPlaceholder(palette, "No standings recorded")
	}

	// Round 0 anchors every line at zero.
	xValues := make([]float64, rounds+1)
	for i := range xValues {
		xValues[i] = float64(i)
	}

	lo, hi := 0.0, 0.0
	series := make([]chart.Series, 0, len(detail.Summary))
	for i, e := range detail.Summary {
		yValues := make([]float64, rounds+1)
		for r, rp := range e.RoundPoint {
			yValues[r+1] = yValues[r] + rp.PlacePoint
		}
		for r := len(e.RoundPoint) + 1; r <= rounds; r++ {
			yValues[r] = yValues[r-1]
		}
		for _, y := range yValues {
			lo, hi = min(lo, y), max(hi, y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%d. %s", e.TournamentPlace, e.PlayerName),
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: palette.line(i),
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    palette.line(i),
			},
		})
	}

	graph := chart.Chart{
		Title:  detail.Info.Name,
		Width:  960,
		Height: 480,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 180, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Round",
			ValueFormatter: roundFormatter,
			Style: chart.Style{
				FontColor: palette.Text,
			},
		},
		YAxis: chart.YAxis{
			Name: "Placement Points",
			Style: chart.Style{
				FontColor: palette.Text,
			},
		},
		Series: series,
	}
	if lo == hi {
		// go-chart rejects a zero-height range.
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render tournament chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func roundFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

// GeneratePlacementChart produces a PNG bar chart of how often a player
// finished in each place.
func GeneratePlacementChart(stats standingsdomain.PlayerStats, palette ChartPalette) ([]byte, error) {
	counts := []int{stats.FirstPlaceCount, stats.SecondPlaceCount, stats.ThirdPlaceCount, stats.FourthPlaceCount}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return renderNoDataPlaceholder(palette, "No games recorded")
	}

	labels := []string{"1st", "2nd", "3rd", "4th"}
	bars := make([]chart.Value, len(counts))
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: labels[i],
			Value: float64(c),
			Style: chart.Style{
				FillColor:   palette.line(i),
				StrokeColor: palette.line(i),
			},
		}
	}

	graph := chart.BarChart{
		Title:  stats.Name,
		Width:  480,
		Height: 360,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxInt(counts))},
		},
		BarWidth: 60,
		Bars:     bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render placement chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func maxInt(values []int) int {
	m := 0
	for _, v := range values {
		m = max(m, v)
	}
	return m
}

// renderNoDataPlaceholder draws msg on a blank canvas. It paints directly on a
// PNG renderer because chart.Chart needs at least one visible series.
func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	r.SetDPI(chart.DefaultDPI)
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.Text)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
