package review

import (
	"context"

	"bookworm/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=review

type Repository interface {
	FindUserByID(ctx context.Context, id string) (entity.User, error)
	FindBook(ctx context.Context, id string) (entity.Book, error)
	SaveBook(ctx context.Context, b *entity.Book) error
	FindReview(ctx context.Context, id string) (entity.Review, error)
	FindReviews(ctx context.Context, f entity.ReviewFilter) ([]entity.Review, error)
	SaveReview(ctx context.Context, r *entity.Review) error
	DeleteReview(ctx context.Context, id string) error
}
