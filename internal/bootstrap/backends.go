// Package bootstrap opens the backends selected by configuration.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/api/http/handlers"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/auth"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/config"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/persistence"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/repository"
)

// Backends holds the opened stores and clients. Close releases them in
// reverse order of opening.
type Backends struct {
	Reports  repository.ReportRepository
	Roles    repository.RoleRepository
	Verifier auth.IdentityVerifier
	Redis    *persistence.Redis
	Postgres *persistence.Postgres
	Pingers  []handlers.Pinger

	firebase *persistence.Firebase
	closers  []func()
}

// OpenStore opens the report and role stores only.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	b := &Backends{}
	if cfg.NeedsFirebase() {
		fb, err := persistence.NewFirebase(ctx, cfg.Firebase, logger)
		if err != nil {
			return nil, fmt.Errorf("firebase credentials: %w", err)
		}
		b.firebase = fb
	}

	switch cfg.Store.Driver {
	case config.StorePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pg.Close)
		b.Postgres = pg
		b.Reports = repository.NewPostgresReportRepository(pg.PoolHandle())
		b.Roles = repository.NewPostgresRoleRepository(pg.PoolHandle())
		b.Pingers = append(b.Pingers, pg)
	default:
		fs, err := persistence.NewFirestore(ctx, b.firebase, logger)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, fs.Close)
		b.Reports = repository.NewFirestoreReportRepository(fs.Client)
		b.Roles = repository.NewFirestoreRoleRepository(fs.Client)
		b.Pingers = append(b.Pingers, fs)
	}
	return b, nil
}

// Open opens the stores, the identity verifier and Redis.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	b, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Postgres.RunMigrations && b.Postgres != nil {
		if err := persistence.RunMigrations(ctx, b.Postgres.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			b.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	switch cfg.Auth.Provider {
	case config.AuthProviderJWT:
		logger.Warn("using local HS256 identity verifier", zap.String("env", cfg.App.Env))
		b.Verifier = auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes)
	default:
		client, err := b.firebase.Auth(ctx)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("firebase auth client: %w", err)
		}
		b.Verifier = auth.NewFirebaseVerifier(client)
	}

	if r := persistence.NewRedis(cfg.Redis, logger); r != nil {
		b.Redis = r
		b.closers = append(b.closers, r.Close)
		b.Pingers = append(b.Pingers, r)
	}
	return b, nil
}

// Close releases every opened backend.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
