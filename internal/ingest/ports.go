package ingest

import (
	"context"

	"bookworm/internal/entity"
	"bookworm/internal/platform/openlibrary"
)

type Repository interface {
	FindGenre(ctx context.Context, id string) (entity.Genre, error)
	ListBooks(ctx context.Context, f entity.BookFilter) ([]entity.Book, error)
	SaveBook(ctx context.Context, b *entity.Book) error
}

// Source is the remote catalog books are imported from.
type Source interface {
	SearchBySubject(ctx context.Context, subject string, limit int) (openlibrary.SearchResponse, error)
	BooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error)
}
