package pgstore

import (
	"context"
	"fmt"
	"strings"

	"bookworm/internal/entity"

	"github.com/jackc/pgx/v5"
)

const bookColumns = `id, title, author, description, cover_image, genre_id,
	average_rating, total_ratings, created_at, updated_at`

func scanBook(row pgx.Row) (entity.Book, error) {
	var b entity.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.CoverImage, &b.GenreID,
		&b.AverageRating, &b.TotalRatings, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (s *Store) FindBook(ctx context.Context, id string) (entity.Book, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(s.db.QueryRow(ctx, "SELECT "+bookColumns+" FROM books WHERE id = $1", id))
	if err != nil {
		return entity.Book{}, mapErr(err, "book", "")
	}
	return b, nil
}

// bookWhere builds the WHERE clause of f and returns its arguments.
func bookWhere(f entity.BookFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if f.GenreID != "" {
		clauses = append(clauses, fmt.Sprintf("genre_id = $%d", argn))
		args = append(args, f.GenreID)
		argn++
	}

	if f.IDs != nil {
		clauses = append(clauses, fmt.Sprintf("id = ANY($%d)", argn))
		args = append(args, f.IDs)
		argn++
	}

	if len(f.ExcludeIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("NOT (id = ANY($%d))", argn))
		args = append(args, f.ExcludeIDs)
		argn++
	}

	if q := strings.TrimSpace(f.Search); q != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d)", argn, argn))
		args = append(args, containsPattern(q))
	}

	return strings.Join(clauses, " AND "), args
}

func (s *Store) ListBooks(ctx context.Context, f entity.BookFilter) ([]entity.Book, error) {
	where, args := bookWhere(f)
	argn := len(args) + 1

	order := "created_at DESC, id ASC"
	if f.Sort == entity.SortTopRated {
		order = "average_rating DESC, created_at ASC, id ASC"
	}

	query := fmt.Sprintf("SELECT %s FROM books WHERE %s ORDER BY %s", bookColumns, where, order)
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argn)
		args = append(args, f.Limit)
		argn++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argn)
		args = append(args, f.Offset)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, "book", "")
	}
	defer rows.Close()

	books := []entity.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, mapErr(err, "book", "")
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *Store) CountBooks(ctx context.Context, f entity.BookFilter) (int, error) {
	where, args := bookWhere(f)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM books WHERE "+where, args...).Scan(&total); err != nil {
		return 0, mapErr(err, "book", "")
	}
	return total, nil
}

func (s *Store) SaveBook(ctx context.Context, b *entity.Book) error {
	const query = `
	INSERT INTO books (` + bookColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		author = EXCLUDED.author,
		description = EXCLUDED.description,
		cover_image = EXCLUDED.cover_image,
		genre_id = EXCLUDED.genre_id,
		average_rating = EXCLUDED.average_rating,
		total_ratings = EXCLUDED.total_ratings,
		updated_at = EXCLUDED.updated_at
	`
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.Exec(ctx, query,
		b.ID, b.Title, b.Author, b.Description, b.CoverImage, b.GenreID,
		b.AverageRating, b.TotalRatings, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "book", "book already exists")
	}
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	return s.delete(ctx, "books", "book", id)
}
