package book

import (
	"context"

	"bookworm/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	FindBook(ctx context.Context, id string) (entity.Book, error)
	ListBooks(ctx context.Context, f entity.BookFilter) ([]entity.Book, error)
	CountBooks(ctx context.Context, f entity.BookFilter) (int, error)
	SaveBook(ctx context.Context, b *entity.Book) error
	DeleteBook(ctx context.Context, id string) error
	FindGenre(ctx context.Context, id string) (entity.Genre, error)
}
