package commands

import (
	"context"
	"errors"

	"tableflip.dev/notebox/pkg/app"
	"tableflip.dev/notebox/pkg/codestore"
	"tableflip.dev/notebox/pkg/logging"
	"tableflip.dev/notebox/pkg/search"
	"tableflip.dev/notebox/pkg/store"
)

// env is everything a command needs to reach the notebox data.
type env struct {
	settings *store.Settings
	log      *logging.LogData
	db       *store.DB
	svc      *app.Service
}

func openEnv(ctx context.Context) (*env, error) {
	settings, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	logData, err := logging.New().FromPath(settings.LogPath()).WithLevel(settings.Log.Level).Make()
	if err != nil {
		return nil, err
	}
	db, err := store.Open(ctx, settings.DatabasePath())
	if err != nil {
		_ = logData.Close()
		return nil, err
	}
	code, err := codestore.New(codestore.Options{
		BasePath:  settings.BasePath(),
		Formatter: codestore.CommandFormatter{Command: settings.Code.Formatter},
		Logger:    logData.Logger.With().Str("component", "codestore").Logger(),
	})
	if err != nil {
		_ = db.Close()
		_ = logData.Close()
		return nil, err
	}
	logData.Logger.Debug().Str("db", db.Path()).Str("code", code.Root()).Msg("opened store")
	return &env{
		settings: settings,
		log:      logData,
		db:       db,
		svc: &app.Service{
			Persistence: db,
			Code:        code,
			Log:         logData.Logger.With().Str("component", "app").Logger(),
		},
	}, nil
}

// searcher wires the local store and both remote providers.
func (e *env) searcher() *search.Coordinator {
	s := e.settings.Search
	client := search.NewHTTPClient(s.Timeout)
	crates := search.NewCratesIO(search.HTTPOptions{BaseURL: s.CratesURL, UserAgent: s.UserAgent, Client: client})
	cheat := search.NewCheatSh(search.HTTPOptions{BaseURL: s.CheatURL, UserAgent: s.UserAgent, Client: client})
	return search.NewCoordinator(search.Local{Store: e.svc}, crates, cheat,
		search.WithQueue(s.Queue),
		search.WithLogger(e.log.Logger.With().Str("component", "search").Logger()),
	)
}

func (e *env) Close() error {
	return errors.Join(e.db.Close(), e.log.Close())
}
