package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsTable tabla donde golang-migrate registra la versión aplicada.
const MigrationsTable = "schema_versions"

// MigrationResult versión del esquema antes y después de Migrate.
type MigrationResult struct {
	From uint
	To   uint
}

// Changed indica si se aplicó al menos una migración.
func (r MigrationResult) Changed() bool { return r.From != r.To }

// Migrate aplica las migraciones embebidas pendientes. golang-migrate toma un
// advisory lock de Postgres, así que varias instancias pueden arrancar a la vez.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (MigrationResult, error) {
	var res MigrationResult

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return res, fmt.Errorf("leer migraciones: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		_ = db.Close()
		return res, fmt.Errorf("driver de migraciones: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		_ = driver.Close()
		return res, fmt.Errorf("iniciar migraciones: %w", err)
	}
	defer m.Close()

	if res.From, err = version(m); err != nil {
		return res, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return res, fmt.Errorf("aplicar migraciones: %w", err)
	}
	res.To, err = version(m)
	return res, err
}

func version(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("versión del esquema: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("esquema en versión %d marcado como sucio: corregir y forzar la versión", v)
	}
	return v, nil
}
