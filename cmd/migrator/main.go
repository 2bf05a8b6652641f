// Package main applies the embedded catalog schema migrations to a PostgreSQL database.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/abgdnv/catalog/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/pflag"
)

const (
	databaseURLFlag = "database-url"
	downFlag        = "down"
	stepsFlag       = "steps"
	databaseURLEnv  = "CATALOG_DATABASE_URL"
)

type options struct {
	databaseURL string
	down        bool
	steps       int
}

func main() {
	opts := getFlagsValues()
	if err := validateFlags(opts); err != nil {
		slog.Error("invalid arguments", "err", err)
		fallDown()
	}
	if err := makeMigrations(opts); err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() options {
	databaseURL := pflag.StringP(databaseURLFlag, "d", os.Getenv(databaseURLEnv), "PostgreSQL URL, defaults to $"+databaseURLEnv)
	down := pflag.Bool(downFlag, false, "roll migrations back instead of applying them")
	steps := pflag.IntP(stepsFlag, "n", 0, "number of migrations to apply or roll back, 0 means all")
	pflag.Parse()
	return options{databaseURL: *databaseURL, down: *down, steps: *steps}
}

func validateFlags(opts options) error {
	var errs []error

	if opts.databaseURL == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", databaseURLFlag))
	}
	if opts.steps < 0 {
		errs = append(errs, fmt.Errorf("--%s flag: must not be negative", stepsFlag))
	}
	return errors.Join(errs...)
}

func makeMigrations(opts options) error {
	m, err := store.NewMigrator(opts.databaseURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	m.Log = NewMigrationLogger()

	switch {
	case opts.steps > 0 && opts.down:
		err = m.Steps(-opts.steps)
	case opts.steps > 0:
		err = m.Steps(opts.steps)
	case opts.down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return nil
		}
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	m.Log.Printf("migration applied, version %d, dirty %t", version, dirty)
	return nil
}

func fallDown() {
	os.Exit(2)
}
