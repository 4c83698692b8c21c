package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"

	"github.com/symtoe"
	"github.com/symtoe/report"
	"github.com/symtoe/store"
	"github.com/symtoe/table"
)

var (
	configFile = flag.String("config", "", "YAML file with training settings; flags given explicitly override it")
	random     = flag.Int("random", 10000, "games in the random regime")
	greedy     = flag.Int("greedy", 10000, "games in the epsilon-greedy regime")
	eval       = flag.Int("eval", 0, "games in the evaluation regime, 0 to skip it")
	epsilon    = flag.Float64("epsilon", 0.1, "exploration rate of the epsilon-greedy regime")
	workers    = flag.Int("workers", 1, "goroutines playing each regime")
	seed       = flag.Int64("seed", 0, "random seed, 0 to seed from the clock")

	loadFile  = flag.String("load", "", "table to continue training from")
	saveFile  = flag.String("save", "tictactoe_qvalues.gob", "where to save the table; .db or .sqlite for SQLite, empty to skip")
	chartFile = flag.String("chart", "", "write an HTML chart of the regime outcomes")
	dotFile   = flag.String("dot", "", "write the greedy line as a DOT graph")

	verbose = flag.Bool("v", false, "log every game")
	noColor = flag.Bool("no-color", false, "plain summary output")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	conf, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("reading config")
	}

	model, err := loadTable(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading table")
	}
	tr, err := symtoe.New(model, conf)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	tr.SetLogger(logger)

	res, err := tr.Train()
	if err != nil {
		logger.Fatal().Err(err).Msg("training failed")
	}
	printSummary(res)

	if *saveFile != "" {
		if err = store.Save(*saveFile, res.Table); err != nil {
			logger.Fatal().Err(err).Msg("saving table")
		}
		logger.Info().Str("path", *saveFile).Int("keys", res.Table.Len()).Msg("table saved")
	}
	if *chartFile != "" {
		if err = writeChart(*chartFile, res.Regimes); err != nil {
			logger.Fatal().Err(err).Msg("writing chart")
		}
	}
	if *dotFile != "" {
		dot, err := report.GreedyLineDOT(res.Table)
		if err != nil {
			logger.Fatal().Err(err).Msg("building greedy line")
		}
		if err = os.WriteFile(*dotFile, []byte(dot), 0644); err != nil {
			logger.Fatal().Err(err).Msg("writing greedy line")
		}
	}
}

// loadConfig layers the YAML file over the defaults and explicitly set flags over both.
func loadConfig() (symtoe.Config, error) {
	conf := symtoe.DefaultConfig()
	conf.RandomGames, conf.GreedyGames = *random, *greedy

	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			return conf, err
		}
		if err = yaml.Unmarshal(data, &conf); err != nil {
			return conf, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "random":
			conf.RandomGames = *random
		case "greedy":
			conf.GreedyGames = *greedy
		case "eval":
			conf.EvalGames = *eval
		case "epsilon":
			conf.Epsilon = *epsilon
		case "workers":
			conf.Workers = *workers
		case "seed":
			conf.Seed = *seed
		}
	})
	return conf, conf.Validate()
}

func loadTable(logger zerolog.Logger) (*table.Table, error) {
	if *loadFile == "" {
		return nil, nil
	}
	t, err := store.Load(*loadFile)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("path", *loadFile).Int("keys", t.Len()).Msg("table loaded")
	return t, nil
}

func printSummary(res symtoe.Report) {
	au := aurora.NewAurora(!*noColor)
	for _, s := range res.Regimes {
		fmt.Printf("%v played itself %v times.\n", au.Bold(au.Cyan(s.Regime)), au.Bold(s.Games))
		fmt.Printf("  win/loss %v (X %d, O %d), draws %v, %.2f±%.2f plies\n",
			au.Red(s.Decisive), s.Player1Wins, s.Player2Wins, au.Green(s.Draws), s.MeanPlies(), s.StdDevPlies())
	}
	fmt.Printf("Trained in %v; the table holds %v keys.\n", au.Yellow(res.Elapsed.Round(time.Millisecond)), au.Bold(res.Table.Len()))
	if res.Table.Len() > 0 {
		k, avg := res.Table.Best()
		fmt.Printf("Best key %v averages %v.\n", au.Cyan(k), au.Green(fmt.Sprintf("%.3f", avg)))
	}
}

func writeChart(path string, stats []symtoe.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = report.OutcomeChart(f, stats...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
