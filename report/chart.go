// Package report renders training results for people: an HTML chart of
// regime outcomes and a DOT graph of the line the table plays greedily.
package report

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/symtoe"
)

// OutcomeChart writes an HTML page with one bar group per regime: wins for
// each marker, draws, and the mean game length.
func OutcomeChart(w io.Writer, stats ...symtoe.Stats) error {
	if len(stats) == 0 {
		return errors.New("no regimes to chart")
	}

	regimes := make([]string, 0, len(stats))
	var xWins, oWins, draws, plies []opts.BarData
	for _, s := range stats {
		regimes = append(regimes, s.Regime.String())
		xWins = append(xWins, opts.BarData{Value: s.Player1Wins})
		oWins = append(oWins, opts.BarData{Value: s.Player2Wins})
		draws = append(draws, opts.BarData{Value: s.Draws})
		plies = append(plies, opts.BarData{Value: s.MeanPlies()})
	}

	outcomes := charts.NewBar()
	outcomes.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Outcomes per regime",
			Subtitle: "games won by each marker and drawn",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	outcomes.SetXAxis(regimes).
		AddSeries("X wins", xWins).
		AddSeries("O wins", oWins).
		AddSeries("draws", draws)

	length := charts.NewBar()
	length.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean plies per game"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	length.SetXAxis(regimes).AddSeries("plies", plies)

	page := components.NewPage()
	page.AddCharts(outcomes, length)
	return errors.Wrap(page.Render(w), "rendering chart")
}
