package pgstore

import (
	"context"
	"fmt"
	"strings"

	"bookworm/internal/entity"

	"github.com/jackc/pgx/v5"
)

const reviewColumns = `id, user_id, book_id, rating, comment, status, created_at, updated_at`

const reviewConflict = "a review for this book by this user already exists"

func scanReview(row pgx.Row) (entity.Review, error) {
	var r entity.Review
	err := row.Scan(&r.ID, &r.UserID, &r.BookID, &r.Rating, &r.Comment, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) FindReview(ctx context.Context, id string) (entity.Review, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := scanReview(s.db.QueryRow(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id))
	if err != nil {
		return entity.Review{}, mapErr(err, "review", reviewConflict)
	}
	return r, nil
}

func (s *Store) FindReviews(ctx context.Context, f entity.ReviewFilter) ([]entity.Review, error) {
	clauses := []string{"1=1"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if f.UserID != "" {
		add("user_id", f.UserID)
	}
	if f.BookID != "" {
		add("book_id", f.BookID)
	}
	if f.Status != "" {
		add("status", string(f.Status))
	}

	query := fmt.Sprintf("SELECT %s FROM reviews WHERE %s ORDER BY created_at DESC, id ASC",
		reviewColumns, strings.Join(clauses, " AND "))

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, "review", reviewConflict)
	}
	defer rows.Close()

	reviews := []entity.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, mapErr(err, "review", reviewConflict)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *Store) SaveReview(ctx context.Context, r *entity.Review) error {
	const query = `
	INSERT INTO reviews (` + reviewColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		rating = EXCLUDED.rating,
		comment = EXCLUDED.comment,
		status = EXCLUDED.status,
		updated_at = EXCLUDED.updated_at
	`
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.Exec(ctx, query,
		r.ID, r.UserID, r.BookID, r.Rating, r.Comment, string(r.Status), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "review", reviewConflict)
	}
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	return s.delete(ctx, "reviews", "review", id)
}
