package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresTokenRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresTokenRepository(db *sql.DB, logger *logrus.Logger) domain.TokenRepository {
	return &postgresTokenRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresTokenRepository) CreateToken(ctx context.Context, token *domain.Token) (*domain.Token, error) {
	query := `INSERT INTO auth_tokens (key, user_id) VALUES ($1, $2) RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query, token.Key, token.UserID).Scan(&token.CreatedAt); err != nil {
		r.log.Errorf("Repository: Failed to store token for user %d: %v", token.UserID, err)
		return nil, fmt.Errorf("could not create token: %w", err)
	}
	return token, nil
}

func (r *postgresTokenRepository) GetTokenByKey(ctx context.Context, key string) (*domain.Token, error) {
	token := &domain.Token{}
	err := r.db.QueryRowContext(ctx, `SELECT key, user_id, created_at FROM auth_tokens WHERE key = $1`, key).
		Scan(&token.Key, &token.UserID, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("token %w", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to look up token: %v", err)
		return nil, fmt.Errorf("could not get token: %w", err)
	}
	return token, nil
}

func (r *postgresTokenRepository) DeleteToken(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE key = $1`, key)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete token: %v", err)
		return fmt.Errorf("could not delete token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm token deletion: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("token %w", domain.ErrNotFound)
	}
	return nil
}
