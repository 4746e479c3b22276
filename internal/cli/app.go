// Package cli implements the local command line application for the income
// tracker. Commands operate directly on the file-backed store in DATA_DIR, so
// the whole ledger stays on this machine.
package cli

import (
	"context"
	"fmt"

	"github.com/google/subcommands"

	"github.com/arrotondami/wealth-engine/internal/config"
	"github.com/arrotondami/wealth-engine/internal/ledger"
	"github.com/arrotondami/wealth-engine/internal/logger"
	"github.com/arrotondami/wealth-engine/internal/models"
	"github.com/arrotondami/wealth-engine/internal/session"
	filestore "github.com/arrotondami/wealth-engine/internal/storage/file"
)

// Commands lists every subcommand. The main package registers them all.
var Commands = []subcommands.Command{
	&loginCmd{},
	&logoutCmd{},
	&whoamiCmd{},
	&addCmd{},
	&rmCmd{},
	&goalCmd{},
	&statusCmd{},
}

// app wires config, storage, engine and session controller for one command
// invocation. As a short-lived CLI there is no long-running state to manage.
type app struct {
	engine   *ledger.Engine
	sessions *session.Controller
	user     *models.User
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Keep CLI output clean: only real errors reach the terminal as logs.
	if err := logger.Init(cfg.Development, logger.ErrorLevel); err != nil {
		return nil, err
	}
	log := logger.Get()

	store, err := filestore.NewStore(cfg.DataDir, log)
	if err != nil {
		return nil, err
	}

	engine := ledger.NewEngine(store, nil, log)
	sessions := session.NewController(store, engine, nil, log)
	user, err := sessions.Resume(ctx)
	if err != nil {
		return nil, err
	}

	return &app{engine: engine, sessions: sessions, user: user}, nil
}

// requireSession is the gate shared by commands that need a logged-in user.
func (a *app) requireSession() error {
	if a.user == nil {
		return fmt.Errorf("not logged in, run 'login' first")
	}
	return nil
}
