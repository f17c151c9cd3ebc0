package db

import (
	"context"
	stdErrors "errors"
	"log/slog"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/domain/service"
	"github.com/evermart/placement_service/internal/errors"
	"github.com/evermart/placement_service/pkg/client/postgresql"
	"github.com/jackc/pgx/v5"
)

var _ service.TokenStorage = new(tokenStorage)

type tokenStorage struct {
	client postgresql.Client
}

func NewTokenStorage(c postgresql.Client) *tokenStorage {
	return &tokenStorage{c}
}

func (s *tokenStorage) FindActor(ctx context.Context, token string) (entity.Actor, error) {
	row := s.client.QueryRow(
		ctx,
		`SELECT actor_name, is_admin
		FROM actor_tokens
		WHERE "token" = $1;`,
		token,
	)

	var actor entity.Actor
	err := row.Scan(&actor.Name, &actor.IsAdmin)
	if err != nil {
		slog.Error("error scanning row", "error", err)
		if stdErrors.Is(err, pgx.ErrNoRows) {
			return entity.Actor{}, errors.NewDomainError(errors.ErrUnauthorized, "")
		}
		return entity.Actor{}, errors.NewDomainError(errors.ErrDB, "")
	}

	return actor, nil
}
