package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/symtoe"
	"github.com/symtoe/game"
	"github.com/symtoe/store"
	"github.com/symtoe/table"
)

var (
	modelFile = flag.String("model", "", "table to play with; trained fresh when empty")
	random    = flag.Int("random", 10000, "random-regime games to train before playing")
	greedy    = flag.Int("greedy", 10000, "epsilon-greedy games to train before playing")
	epsilon   = flag.Float64("epsilon", 0.1, "exploration rate while training")
	workers   = flag.Int("workers", 1, "goroutines used for training")

	human = flag.String("human", "X", "marker of the human player, X or O")
	watch = flag.Bool("watch", false, "watch the CPU play itself instead")
	delay = flag.Duration("delay", time.Second, "pause between CPU moves")
)

func main() {
	flag.Parse()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	tbl, err := prepareTable(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("preparing table")
	}

	out := termenv.NewOutput(os.Stdout)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	x, o, err := players(tbl, r, os.Stdin, out)
	if err != nil {
		logger.Fatal().Err(err).Msg("setting up players")
	}

	fmt.Fprintln(out, render(out, game.New()))
	result, err := symtoe.PlayMatch(x, o, func(b *game.Board, p symtoe.Player, move int) {
		row, col := game.Coords(move)
		fmt.Fprintf(out, "\n%s played at row %d, col %d\n\n%s\n", p.Name(), row, col, render(out, b))
		if _, cpu := p.(*symtoe.Agent); cpu && *watch {
			time.Sleep(*delay)
		}
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("match aborted")
	}
	fmt.Fprintln(out, announce(out, result, x, o))
}

func prepareTable(logger zerolog.Logger) (*table.Table, error) {
	var tbl *table.Table
	if *modelFile != "" {
		t, err := store.Load(*modelFile)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", *modelFile).Int("keys", t.Len()).Msg("table loaded")
		tbl = t
	}

	conf := symtoe.DefaultConfig()
	conf.RandomGames, conf.GreedyGames = *random, *greedy
	conf.Epsilon, conf.Workers = *epsilon, *workers
	tr, err := symtoe.New(tbl, conf)
	if err != nil {
		return nil, err
	}
	tr.SetLogger(logger)
	res, err := tr.Train()
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

func players(tbl *table.Table, r *rand.Rand, in io.Reader, out io.Writer) (symtoe.Player, symtoe.Player, error) {
	cpu := func(name string, mark game.Cell) *symtoe.Agent {
		a := symtoe.NewAgent(name, mark, r)
		a.Table = tbl
		return a
	}
	if *watch {
		return cpu("CPU 1", game.Player1), cpu("CPU 2", game.Player2), nil
	}
	switch strings.ToUpper(*human) {
	case "X":
		return symtoe.NewHuman("You", game.Player1, in, out), cpu("CPU", game.Player2), nil
	case "O":
		return cpu("CPU", game.Player1), symtoe.NewHuman("You", game.Player2, in, out), nil
	}
	return nil, nil, errors.Errorf("-human must be X or O, got %q", *human)
}

func render(out *termenv.Output, b *game.Board) string {
	return b.Format(func(c game.Cell) string {
		switch c {
		case game.Player1:
			return out.String(c.String()).Foreground(out.Color("1")).Bold().String()
		case game.Player2:
			return out.String(c.String()).Foreground(out.Color("4")).Bold().String()
		}
		return c.String()
	})
}

func announce(out *termenv.Output, result game.Result, x, o symtoe.Player) string {
	var msg string
	switch result {
	case game.Draw:
		msg = "It's a draw!"
	case game.Player1Wins:
		msg = x.Name() + " wins!"
	case game.Player2Wins:
		msg = o.Name() + " wins!"
	}
	return out.String(msg).Bold().String()
}
