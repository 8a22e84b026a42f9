// Package daemon wires storage, token signing, providers and the web service together.
package daemon

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/auth/state"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db"
	"github.com/authcore/authcore/internal/db/controller/user"
	"github.com/authcore/authcore/internal/identity"
	"github.com/authcore/authcore/internal/token"
	"github.com/authcore/authcore/internal/web"
	"github.com/authcore/authcore/internal/web/handler"
)

// ErrConfigNil is returned when the daemon is created without configuration.
var ErrConfigNil = errors.New("config is nil")

// openDB is swapped in tests to observe the connection New opens.
var openDB = db.Open

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	db         *gorm.DB
	states     state.Store
}

// New opens the database and builds every collaborator of the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	gdb, err := openDB(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	deps, states, err := build(ctx, cfg, gdb)
	if err != nil {
		closeDB(gdb)
		return nil, err
	}

	webService, err := web.New(cfg, deps)
	if err != nil {
		_ = states.Close()
		closeDB(gdb)

		return nil, err //nolint:wrapcheck
	}

	return &Daemon{
		webService: webService,
		db:         gdb,
		states:     states,
	}, nil
}

func build(ctx context.Context, cfg *config.Config, gdb *gorm.DB) (*handler.Deps, state.Store, error) {
	secret, err := signingSecret(ctx, cfg, gdb)
	if err != nil {
		return nil, nil, err
	}

	signer, err := token.NewHMACSigner(secret)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	tokenCfg := token.Config{
		Issuer: cfg.Session.Issuer,
		MaxAge: cfg.Session.MaxAge,
	}

	providers, err := auth.NewRegistryFromConfig(ctx, cfg.Auth, cfg.Webserver.URL)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	if providers.Len() == 0 {
		log.Warn().Msg("no sign-in provider is configured")
	}

	states, err := state.New(cfg)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	log.Info().Str("backend", cfg.StateStore.Backend).Dur("ttl", cfg.StateStore.TTL).Msg("oauth state store ready")

	return &handler.Deps{
		Providers: providers,
		States:    states,
		Resolver:  identity.NewResolver(user.New(gdb)),
		Issuer:    token.NewIssuer(signer, tokenCfg),
		Projector: token.NewProjector(signer, tokenCfg),
	}, states, nil
}

// Start runs the web service until SIGINT or SIGTERM shut it down.
func (d *Daemon) Start() error {
	defer d.close()

	go d.webService.WaitShutdown()

	return d.webService.Start() //nolint:wrapcheck
}

func (d *Daemon) close() {
	if err := d.states.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close state store")
	}

	closeDB(d.db)
}

func closeDB(gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
}
