// Package migrations embeds the PostgreSQL schema and applies it with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"medcare-api/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed *.sql
var FS embed.FS

// DatabaseURL builds the pgx5:// URL golang-migrate expects.
func DatabaseURL(cfg config.DBConfig) string {
	u := url.URL{
		Scheme: "pgx5",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type Runner struct {
	m   *migrate.Migrate
	log *logrus.Logger
}

func NewRunner(cfg config.DBConfig, log *logrus.Logger) (*Runner, error) {
	src, err := iofs.New(FS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, DatabaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to init migrate: %w", err)
	}
	return &Runner{m: m, log: log}, nil
}

func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	r.log.Info("Migrations applied")
	return nil
}

func (r *Runner) Down() error {
	if err := r.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	r.log.Info("Migrations rolled back")
	return nil
}

func (r *Runner) Version() (uint, bool, error) {
	version, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (r *Runner) Close() {
	srcErr, dbErr := r.m.Close()
	if srcErr != nil || dbErr != nil {
		r.log.Warnf("Failed to close migrator: source=%v database=%v", srcErr, dbErr)
	}
}
