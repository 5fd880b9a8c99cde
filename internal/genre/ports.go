package genre

import (
	"context"

	"bookworm/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=genre

type Repository interface {
	FindGenre(ctx context.Context, id string) (entity.Genre, error)
	FindGenres(ctx context.Context) ([]entity.Genre, error)
	SaveGenre(ctx context.Context, g *entity.Genre) error
	DeleteGenre(ctx context.Context, id string) error
}
