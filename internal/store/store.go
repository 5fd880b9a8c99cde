// Package store defines the persistence boundary of the service and opens
// the configured driver.
//
// Drivers return apperr NotFound for missing documents and apperr Conflict
// for unique-key violations (user email or auth reference, genre name or
// slug, one review per user and book). Save methods upsert by ID; callers
// assign IDs and timestamps.
package store

import (
	"context"

	"bookworm/internal/entity"
)

type Users interface {
	FindUserByID(ctx context.Context, id string) (entity.User, error)
	FindUserByEmail(ctx context.Context, email string) (entity.User, error)
	FindUserByAuthID(ctx context.Context, authID string) (entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	SaveUser(ctx context.Context, u *entity.User) error
}

type Books interface {
	FindBook(ctx context.Context, id string) (entity.Book, error)
	ListBooks(ctx context.Context, f entity.BookFilter) ([]entity.Book, error)
	// CountBooks counts the matches of f, ignoring Limit, Offset and Sort.
	CountBooks(ctx context.Context, f entity.BookFilter) (int, error)
	SaveBook(ctx context.Context, b *entity.Book) error
	DeleteBook(ctx context.Context, id string) error
}

type Reviews interface {
	FindReview(ctx context.Context, id string) (entity.Review, error)
	FindReviews(ctx context.Context, f entity.ReviewFilter) ([]entity.Review, error)
	SaveReview(ctx context.Context, r *entity.Review) error
	DeleteReview(ctx context.Context, id string) error
}

type Genres interface {
	FindGenre(ctx context.Context, id string) (entity.Genre, error)
	FindGenres(ctx context.Context) ([]entity.Genre, error)
	SaveGenre(ctx context.Context, g *entity.Genre) error
	DeleteGenre(ctx context.Context, id string) error
}

// Store is implemented by every driver.
type Store interface {
	Users
	Books
	Reviews
	Genres
	Ping(ctx context.Context) error
	Close() error
}
