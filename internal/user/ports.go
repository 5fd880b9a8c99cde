package user

import (
	"context"

	"bookworm/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=user

type Repository interface {
	FindUserByID(ctx context.Context, id string) (entity.User, error)
	FindUserByEmail(ctx context.Context, email string) (entity.User, error)
	FindUserByAuthID(ctx context.Context, authID string) (entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	SaveUser(ctx context.Context, u *entity.User) error
	FindGenre(ctx context.Context, id string) (entity.Genre, error)
}
