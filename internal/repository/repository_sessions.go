package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"procurement/internal/session"
)

func (repo *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
	SELECT
		value
	FROM session_values
	WHERE key = $1
	LIMIT 1
	`

	var sealed []byte
	row := repo.db.QueryRowContext(ctx, query, key)
	err := row.Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("repository.Repository.Get: %w", err)
	}

	plain, err := session.Open(repo.key, sealed)
	if err != nil {
		return "", false, fmt.Errorf("repository.Repository.Get: %w", err)
	}

	return string(plain), true, nil
}

func (repo *Repository) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO session_values
		(key, value, updated_at)
	VALUES
		($1, $2, CURRENT_TIMESTAMP)
	ON CONFLICT (key) DO UPDATE SET (value, updated_at) = ($2, CURRENT_TIMESTAMP)
	`

	sealed, err := session.Seal(repo.key, []byte(value))
	if err != nil {
		return fmt.Errorf("repository.Repository.Set: %w", err)
	}

	_, err = repo.db.ExecContext(ctx, query, key, sealed)
	if err != nil {
		return fmt.Errorf("repository.Repository.Set: %w", err)
	}
	return nil
}

func (repo *Repository) Remove(ctx context.Context, key string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM session_values WHERE key = $1", key)
	if err != nil {
		return fmt.Errorf("repository.Repository.Remove: %w", err)
	}
	return nil
}
