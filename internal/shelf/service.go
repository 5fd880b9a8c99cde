// Package shelf moves books between the wantToRead, currentlyReading and read
// shelves of a user and tracks reading progress.
package shelf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"
	"bookworm/internal/metrics"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ReadingBook is a book on the currentlyReading shelf with its progress.
type ReadingBook struct {
	entity.Book
	Progress int `json:"progress"`
}

// Library is a user's shelves with the book documents resolved.
type Library struct {
	WantToRead       []entity.Book `json:"want_to_read"`
	CurrentlyReading []ReadingBook `json:"currently_reading"`
	Read             []entity.Book `json:"read"`
}

// SetShelf moves bookID to target, removing it from every other shelf.
// ShelfNone only removes it. The book itself is not looked up, so a
// reference to a missing book is stored as given.
func (s *Service) SetShelf(ctx context.Context, userID, bookID string, target entity.Shelf) (entity.Shelves, error) {
	if strings.TrimSpace(bookID) == "" {
		return entity.Shelves{}, apperr.InvalidArgument("book id is required")
	}
	if _, err := entity.ParseShelf(string(target)); err != nil {
		return entity.Shelves{}, err
	}

	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return entity.Shelves{}, err
	}

	u.Shelves.Move(bookID, target)
	u.UpdatedAt = s.now()
	if err := s.repo.SaveUser(ctx, &u); err != nil {
		return entity.Shelves{}, fmt.Errorf("save shelves: %w", err)
	}

	metrics.RecordShelfMove(string(target))
	u.Shelves.Normalize()
	return u.Shelves, nil
}

// UpdateProgress stores the clamped progress of a book being read and
// returns the stored value.
func (s *Service) UpdateProgress(ctx context.Context, userID, bookID string, progress int) (int, error) {
	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	stored, ok := u.Shelves.SetProgress(bookID, progress)
	if !ok {
		return 0, apperr.NotFound("book %s is not on the currentlyReading shelf", bookID)
	}

	u.UpdatedAt = s.now()
	if err := s.repo.SaveUser(ctx, &u); err != nil {
		return 0, fmt.Errorf("save progress: %w", err)
	}
	return stored, nil
}

// GetShelfOf reports which shelf holds bookID, or ShelfNone.
func (s *Service) GetShelfOf(ctx context.Context, userID, bookID string) (entity.Shelf, error) {
	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Shelves.Locate(bookID), nil
}

// Library resolves the books on every shelf, keeping shelf order. Books that
// no longer exist are left out.
func (s *Service) Library(ctx context.Context, userID string) (Library, error) {
	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return Library{}, err
	}

	ids := make([]string, 0, len(u.Shelves.WantToRead)+len(u.Shelves.CurrentlyReading)+len(u.Shelves.Read))
	ids = append(ids, u.Shelves.WantToRead...)
	for _, e := range u.Shelves.CurrentlyReading {
		ids = append(ids, e.BookID)
	}
	ids = append(ids, u.Shelves.Read...)

	lib := Library{
		WantToRead:       []entity.Book{},
		CurrentlyReading: []ReadingBook{},
		Read:             []entity.Book{},
	}
	if len(ids) == 0 {
		return lib, nil
	}

	books, err := s.repo.ListBooks(ctx, entity.BookFilter{IDs: ids})
	if err != nil {
		return Library{}, fmt.Errorf("load shelf books: %w", err)
	}
	byID := make(map[string]entity.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	for _, id := range u.Shelves.WantToRead {
		if b, ok := byID[id]; ok {
			lib.WantToRead = append(lib.WantToRead, b)
		}
	}
	for _, e := range u.Shelves.CurrentlyReading {
		if b, ok := byID[e.BookID]; ok {
			lib.CurrentlyReading = append(lib.CurrentlyReading, ReadingBook{Book: b, Progress: e.Progress})
		}
	}
	for _, id := range u.Shelves.Read {
		if b, ok := byID[id]; ok {
			lib.Read = append(lib.Read, b)
		}
	}
	return lib, nil
}
