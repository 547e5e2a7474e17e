package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/kanbohq/kanbo/internal/assist"
	"github.com/kanbohq/kanbo/internal/board"
	"github.com/kanbohq/kanbo/internal/config"
	dbpkg "github.com/kanbohq/kanbo/internal/db"
	"github.com/kanbohq/kanbo/internal/genai"
	"github.com/kanbohq/kanbo/internal/settings"
)

func loadConfig() (config.Config, error) {
	path, err := configPath()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}

// openSettings returns the preferences store. Preferences normally live
// in the sqlite database so the theme survives restarts; --no-persist
// swaps in the in-memory store.
func openSettings(cfg config.Config) (settings.Store, func(), error) {
	if noPersist {
		return settings.NewMemory(), func() {}, nil
	}
	path := cfg.DBPath
	if path == "" {
		dir, err := kanboDir()
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create kanbo dir: %w", err)
		}
		path = filepath.Join(dir, "kanbo.db")
	}
	db, err := dbpkg.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return settings.NewSQLite(db), func() { _ = db.Close() }, nil
}

// newWorkflows wires the AI workflows over a store. When no API key is
// configured the board still works: every AI call fails in-band with a
// could-not-reach message instead of refusing to start.
func newWorkflows(cfg config.Config, store *board.Store) *assist.Workflows {
	client, err := genai.NewClient(genai.Config{
		Model:     cfg.GenAI.Model,
		BaseURL:   cfg.GenAI.BaseURL,
		APIKeyEnv: cfg.GenAI.APIKeyEnv,
		Timeout:   cfg.GenAI.Timeout(),
	}, nil)
	if err != nil {
		log.Warn().Err(err).Msg("AI workflows unavailable")
		return assist.New(store, unavailableGenerator{err: err})
	}
	return assist.New(store, client)
}

type unavailableGenerator struct {
	err error
}

func (g unavailableGenerator) Generate(context.Context, genai.Request) (json.RawMessage, error) {
	return nil, fmt.Errorf("%w: %v", genai.ErrTransport, g.err)
}
