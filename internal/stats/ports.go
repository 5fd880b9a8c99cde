package stats

import (
	"context"

	"bookworm/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=stats

type Repository interface {
	FindUserByID(ctx context.Context, id string) (entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	ListBooks(ctx context.Context, f entity.BookFilter) ([]entity.Book, error)
	CountBooks(ctx context.Context, f entity.BookFilter) (int, error)
	FindGenres(ctx context.Context) ([]entity.Genre, error)
	FindReviews(ctx context.Context, f entity.ReviewFilter) ([]entity.Review, error)
}
