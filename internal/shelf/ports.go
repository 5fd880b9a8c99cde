package shelf

import (
	"context"

	"bookworm/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=shelf

// Repository is the slice of the store the shelf service needs.
type Repository interface {
	FindUserByID(ctx context.Context, id string) (entity.User, error)
	SaveUser(ctx context.Context, u *entity.User) error
	ListBooks(ctx context.Context, f entity.BookFilter) ([]entity.Book, error)
}
