// Package genre manages the genres books are filed under.
package genre

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

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// List returns every genre, newest first.
func (s *Service) List(ctx context.Context) ([]entity.Genre, error) {
	return s.repo.FindGenres(ctx)
}

func (s *Service) Create(ctx context.Context, name string) (entity.Genre, error) {
	name, slug, err := nameAndSlug(name)
	if err != nil {
		return entity.Genre{}, err
	}

	now := s.now()
	g := entity.Genre{ID: s.newID(), Name: name, Slug: slug, CreatedAt: now, UpdatedAt: now}
	if err := s.save(ctx, &g); err != nil {
		return entity.Genre{}, err
	}
	return g, nil
}

// Rename changes the name of a genre and derives a new slug from it.
func (s *Service) Rename(ctx context.Context, id, name string) (entity.Genre, error) {
	name, slug, err := nameAndSlug(name)
	if err != nil {
		return entity.Genre{}, err
	}

	g, err := s.repo.FindGenre(ctx, id)
	if err != nil {
		return entity.Genre{}, err
	}
	g.Name, g.Slug = name, slug
	g.UpdatedAt = s.now()
	if err := s.save(ctx, &g); err != nil {
		return entity.Genre{}, err
	}
	return g, nil
}

// Delete removes a genre. Books filed under it keep the reference and are
// reported under "Other".
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteGenre(ctx, id)
}

func (s *Service) save(ctx context.Context, g *entity.Genre) error {
	err := s.repo.SaveGenre(ctx, g)
	if errors.Is(err, apperr.ErrConflict) {
		return apperr.Conflict("genre %q already exists", g.Name)
	}
	if err != nil {
		return fmt.Errorf("save genre: %w", err)
	}
	return nil
}

func nameAndSlug(name string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", apperr.InvalidArgument("genre name is required")
	}
	slug := Slugify(name)
	if slug == "" {
		return "", "", apperr.InvalidArgument("genre name %q has no letters or digits", name)
	}
	return name, slug, nil
}
