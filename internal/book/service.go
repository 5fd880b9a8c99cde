// Package book serves the catalog and its administration.
package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"

	"github.com/google/uuid"
)

// AllGenres as a genre filter means no genre filter.
const AllGenres = "All"

// Query defines filters and pagination for listing books.
type Query struct {
	Search   string
	GenreID  string
	Page     int
	PageSize int
}

// Input holds the editable fields of a book. Rating fields are derived from
// reviews and cannot be set here.
type Input struct {
	Title       string `json:"title" validate:"notblank,max=300"`
	Author      string `json:"author" validate:"notblank,max=200"`
	Description string `json:"description" validate:"max=5000"`
	CoverImage  string `json:"cover_image" validate:"omitempty,url"`
	GenreID     string `json:"genre_id" validate:"notblank"`
}

func (in Input) normalized() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Description = strings.TrimSpace(in.Description)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
	in.GenreID = strings.TrimSpace(in.GenreID)
	return in
}

// Service provides book-related business logic.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// List returns one page of matching books, newest first, and the number of
// matches across all pages.
func (s *Service) List(ctx context.Context, q Query) ([]entity.Book, int, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}

	f := entity.BookFilter{
		Search:  strings.TrimSpace(q.Search),
		GenreID: q.GenreID,
		Sort:    entity.SortNewest,
		Limit:   q.PageSize,
		Offset:  (q.Page - 1) * q.PageSize,
	}
	if f.GenreID == AllGenres {
		f.GenreID = ""
	}

	books, err := s.repo.ListBooks(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	total, err := s.repo.CountBooks(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	return books, total, nil
}

// Get returns a book by its ID.
func (s *Service) Get(ctx context.Context, id string) (entity.Book, error) {
	return s.repo.FindBook(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (entity.Book, error) {
	in = in.normalized()
	if err := s.checkInput(ctx, in); err != nil {
		return entity.Book{}, err
	}

	now := s.now()
	b := entity.Book{
		ID:          s.newID(),
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		GenreID:     in.GenreID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.SaveBook(ctx, &b); err != nil {
		return entity.Book{}, fmt.Errorf("save book: %w", err)
	}
	return b, nil
}

// Update replaces the editable fields of a book and keeps its rating.
func (s *Service) Update(ctx context.Context, id string, in Input) (entity.Book, error) {
	b, err := s.repo.FindBook(ctx, id)
	if err != nil {
		return entity.Book{}, err
	}
	in = in.normalized()
	if err := s.checkInput(ctx, in); err != nil {
		return entity.Book{}, err
	}

	b.Title = in.Title
	b.Author = in.Author
	b.Description = in.Description
	b.CoverImage = in.CoverImage
	b.GenreID = in.GenreID
	b.UpdatedAt = s.now()
	if err := s.repo.SaveBook(ctx, &b); err != nil {
		return entity.Book{}, fmt.Errorf("save book: %w", err)
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) checkInput(ctx context.Context, in Input) error {
	if in.Title == "" || in.Author == "" {
		return apperr.InvalidArgument("title and author are required")
	}
	if in.GenreID == "" {
		return apperr.InvalidArgument("genre is required")
	}
	if _, err := s.repo.FindGenre(ctx, in.GenreID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.InvalidArgument("genre %s does not exist", in.GenreID)
		}
		return err
	}
	return nil
}
