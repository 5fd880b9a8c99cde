package recommend

import (
	"context"
	"time"

	"bookworm/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=recommend

type Repository interface {
	FindUserByID(ctx context.Context, id string) (entity.User, error)
	FindGenre(ctx context.Context, id string) (entity.Genre, error)
	ListBooks(ctx context.Context, f entity.BookFilter) ([]entity.Book, error)
}

// Cache stores encoded recommendation lists. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}
