package postgres

import (
	"context"
	"errors"

	"github.com/BloggingApp/bloghub/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")

type PostgresRepository struct {
	Post *postRepo
	User *userRepo
}

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, cfg.DSN())
}

func New(db *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		Post: newPostRepo(db, logger),
		User: newUserRepo(db, logger),
	}
}
