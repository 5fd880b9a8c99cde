package pgstore

import (
	"context"

	"bookworm/internal/entity"

	"github.com/jackc/pgx/v5"
)

const genreColumns = `id, name, slug, created_at, updated_at`

const genreConflict = "a genre with this name already exists"

func scanGenre(row pgx.Row) (entity.Genre, error) {
	var g entity.Genre
	err := row.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (s *Store) FindGenre(ctx context.Context, id string) (entity.Genre, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	g, err := scanGenre(s.db.QueryRow(ctx, "SELECT "+genreColumns+" FROM genres WHERE id = $1", id))
	if err != nil {
		return entity.Genre{}, mapErr(err, "genre", genreConflict)
	}
	return g, nil
}

func (s *Store) FindGenres(ctx context.Context) ([]entity.Genre, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, "SELECT "+genreColumns+" FROM genres ORDER BY created_at DESC, id ASC")
	if err != nil {
		return nil, mapErr(err, "genre", genreConflict)
	}
	defer rows.Close()

	genres := []entity.Genre{}
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, mapErr(err, "genre", genreConflict)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (s *Store) SaveGenre(ctx context.Context, g *entity.Genre) error {
	const query = `
	INSERT INTO genres (` + genreColumns + `)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		slug = EXCLUDED.slug,
		updated_at = EXCLUDED.updated_at
	`
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.db.Exec(ctx, query, g.ID, g.Name, g.Slug, g.CreatedAt, g.UpdatedAt); err != nil {
		return mapErr(err, "genre", genreConflict)
	}
	return nil
}

func (s *Store) DeleteGenre(ctx context.Context, id string) error {
	return s.delete(ctx, "genres", "genre", id)
}
