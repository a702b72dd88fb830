package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"procurement/internal/config"

	postgres "procurement/internal/repository/db"
)

// Repository is the Postgres backed session store, used when several gateway
// instances share one identity.
type Repository struct {
	db  *sql.DB
	cfg *config.PostgresConfig
	key []byte
}

// NewRepository opens the database (unless one is supplied) and applies migrations.
// key seals the stored values and must be 32 bytes.
func NewRepository(db *sql.DB, cfg *config.PostgresConfig, key []byte) (*Repository, error) {
	var err error

	repo := &Repository{
		db:  db,
		cfg: cfg,
		key: key,
	}

	if repo.cfg == nil {
		repo.cfg, err = config.NewPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not load postgres config: %w", err)
		}
	}

	if repo.db == nil {
		repo.db, err = postgres.NewPostgresDB(repo.cfg)
		if err != nil {
			return nil, fmt.Errorf("repository.NewRepository: could not open postgres db: %w", err)
		}
	}

	if repo.cfg.AutoMigrateUp == "true" {
		err = repo.MigrateUp()
		if err != nil {
			return nil, err
		}
	}

	return repo, nil
}

func (repo *Repository) MigrateUp() error {
	err := postgres.MigrateUp(repo.db, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.Migrate: %w", err)
	}
	return nil
}

func (repo *Repository) MigrateDown() error {
	err := postgres.MigrateDown(repo.db, repo.cfg.MigrationsURL)
	if err != nil {
		return fmt.Errorf("repository.Repository.Migrate: %w", err)
	}
	return nil
}

func (repo *Repository) Close() error {
	var migErr error
	if repo.cfg.AutoMigrateDown == "true" {
		migErr = repo.MigrateDown()
	}

	err := repo.db.Close()
	return errors.Join(migErr, err)
}

//// Test utils

func (repo *Repository) TestGetDB() *sql.DB {
	return repo.db
}
