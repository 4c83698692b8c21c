package main

import (
	"io"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/symtoe"
	"github.com/symtoe/game"
	"github.com/symtoe/store"
	"github.com/symtoe/table"
)

// server holds one game against the CPU and the table the CPU plays from.
type server struct {
	sync.Mutex
	dir    string
	logger zerolog.Logger
	r      *rand.Rand

	table *table.Table
	board *game.Board
	human game.Cell
	cpu   *symtoe.Agent
}

type gameState struct {
	Board  [game.Cells]string `json:"board"`
	Human  string             `json:"human"`
	ToMove string             `json:"to_move,omitempty"`
	Result string             `json:"result"`
	Over   bool               `json:"over"`
	Keys   int                `json:"keys"`
}

type newGameRequest struct {
	Human string `json:"human"`
}

type moveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

type trainRequest struct {
	Random  int      `json:"random"`
	Greedy  int      `json:"greedy"`
	Eval    int      `json:"eval"`
	Epsilon *float64 `json:"epsilon"`
	Workers int      `json:"workers"`
	Seed    int64    `json:"seed"`
}

type modelRequest struct {
	Path string `json:"path" binding:"required"`
}

func newServer(dir string, t *table.Table, r *rand.Rand, logger zerolog.Logger) *server {
	if t == nil {
		t = table.New()
	}
	s := &server{dir: dir, logger: logger, r: r, table: t}
	s.reset(game.Player1)
	return s
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/game", s.newGame)
	r.PUT("/game", s.move)
	r.GET("/game", s.getState)
	r.POST("/train", s.train)
	r.POST("/model/load", s.load)
	r.POST("/model/save", s.save)
	return r
}

// reset starts a new game; the CPU opens when the human plays O. Callers hold the lock.
func (s *server) reset(human game.Cell) {
	s.board = game.New()
	s.human = human
	s.cpu = symtoe.NewAgent("CPU", human.Opponent(), s.r)
	s.cpu.Table = s.table
	if human == game.Player2 {
		s.cpuMove()
	}
}

func (s *server) cpuMove() {
	move, err := s.cpu.ChooseMove(s.board)
	if err != nil {
		// only reachable on a finished board
		return
	}
	s.board.ApplyMove(s.cpu.Marker, move)
}

func (s *server) toMove() game.Cell {
	if len(s.board.LegalMoves())%2 == 1 {
		return game.Player1
	}
	return game.Player2
}

func (s *server) state() gameState {
	st := gameState{
		Human:  s.human.String(),
		Result: s.board.Result().String(),
		Over:   s.board.Result().Terminal(),
		Keys:   s.table.Len(),
	}
	for i := range st.Board {
		r, c := game.Coords(i)
		st.Board[i] = strings.TrimSpace(s.board.Get(r, c).String())
	}
	if !st.Over {
		st.ToMove = s.toMove().String()
	}
	return st
}

func (s *server) newGame(ctx *gin.Context) {
	var req newGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game request"})
		return
	}
	human := game.Player1
	switch strings.ToUpper(req.Human) {
	case "", "X":
	case "O":
		human = game.Player2
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "human must be X or O"})
		return
	}

	s.Lock()
	defer s.Unlock()
	s.reset(human)
	ctx.IndentedJSON(http.StatusOK, s.state())
}

func (s *server) move(ctx *gin.Context) {
	var req moveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid move data"})
		return
	}

	s.Lock()
	defer s.Unlock()
	if s.board.Result().Terminal() {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Game already finished"})
		return
	}
	if s.toMove() != s.human {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Not your turn"})
		return
	}
	if !s.board.IsLegalMove(*req.Row, *req.Col) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": game.ErrIllegalMove.Error()})
		return
	}
	s.board.ApplyMove(s.human, game.Index(*req.Row, *req.Col))
	if !s.board.Result().Terminal() {
		s.cpuMove()
	}
	ctx.IndentedJSON(http.StatusOK, s.state())
}

func (s *server) getState(ctx *gin.Context) {
	s.Lock()
	defer s.Unlock()
	ctx.IndentedJSON(http.StatusOK, s.state())
}

func (s *server) train(ctx *gin.Context) {
	var req trainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid training request"})
		return
	}
	conf := symtoe.DefaultConfig()
	conf.RandomGames, conf.GreedyGames, conf.EvalGames = req.Random, req.Greedy, req.Eval
	if req.Epsilon != nil {
		conf.Epsilon = *req.Epsilon
	}
	if req.Workers > 0 {
		conf.Workers = req.Workers
	}
	conf.Seed = req.Seed

	s.Lock()
	defer s.Unlock()
	tr, err := symtoe.New(s.table, conf)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tr.SetLogger(s.logger)
	res, err := tr.Train()
	if err != nil {
		s.logger.Error().Err(err).Msg("training failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Training failed"})
		return
	}
	s.reset(s.human)
	ctx.IndentedJSON(http.StatusOK, gin.H{
		"regimes": res.Regimes,
		"elapsed": res.Elapsed.String(),
		"state":   s.state(),
	})
}

// modelPath confines client-supplied names to the model directory.
func (s *server) modelPath(name string) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", errors.Errorf("invalid model name %q", name)
	}
	return filepath.Join(s.dir, base), nil
}

func (s *server) load(ctx *gin.Context) {
	var req modelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing path"})
		return
	}
	path, err := s.modelPath(req.Path)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := store.Load(path)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.Lock()
	defer s.Unlock()
	s.table = t
	s.reset(s.human)
	s.logger.Info().Str("path", path).Int("keys", t.Len()).Msg("table loaded")
	ctx.IndentedJSON(http.StatusOK, s.state())
}

func (s *server) save(ctx *gin.Context) {
	var req modelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing path"})
		return
	}
	path, err := s.modelPath(req.Path)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.Lock()
	defer s.Unlock()
	if err = store.Save(path, s.table); err != nil {
		s.logger.Error().Err(err).Msg("saving table")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't save table"})
		return
	}
	s.logger.Info().Str("path", path).Int("keys", s.table.Len()).Msg("table saved")
	ctx.IndentedJSON(http.StatusOK, gin.H{"path": req.Path, "keys": s.table.Len()})
}
