package main

import (
	"flag"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/symtoe/store"
	"github.com/symtoe/table"
)

var (
	addr  = flag.String("addr", "localhost:8080", "listen address")
	dir   = flag.String("dir", ".", "directory models are loaded from and saved to")
	model = flag.String("model", "", "model in -dir to load at startup")
)

func main() {
	flag.Parse()
	if envAddr := os.Getenv("ADDR"); envAddr != "" {
		*addr = envAddr
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	var t *table.Table
	if *model != "" {
		var err error
		if t, err = store.Load(filepath.Join(*dir, *model)); err != nil {
			logger.Fatal().Err(err).Msg("loading table")
		}
	}

	gin.SetMode(gin.ReleaseMode)
	s := newServer(*dir, t, rand.New(rand.NewSource(time.Now().UnixNano())), logger)
	logger.Info().Str("addr", *addr).Msg("listening")
	if err := s.routes().Run(*addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
