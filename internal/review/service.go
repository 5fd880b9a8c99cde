// Package review accepts reader reviews and runs their moderation.
//
// A book's AverageRating and TotalRatings are derived from its approved
// reviews only. Every approval recomputes both from the full approved set
// instead of adjusting them incrementally, so a drifted aggregate is repaired
// by the next approval.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"
	"bookworm/internal/logging"
	"bookworm/internal/metrics"

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

// Submit stores a pending review. The book's rating is not touched until the
// review is approved.
func (s *Service) Submit(ctx context.Context, userID, bookID string, rating int, comment string) (entity.Review, error) {
	if rating < entity.MinRating || rating > entity.MaxRating {
		return entity.Review{}, apperr.InvalidArgument("rating must be between %d and %d", entity.MinRating, entity.MaxRating)
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return entity.Review{}, apperr.InvalidArgument("comment is required")
	}

	if _, err := s.repo.FindUserByID(ctx, userID); err != nil {
		return entity.Review{}, err
	}
	if _, err := s.repo.FindBook(ctx, bookID); err != nil {
		return entity.Review{}, err
	}

	existing, err := s.repo.FindReviews(ctx, entity.ReviewFilter{UserID: userID, BookID: bookID})
	if err != nil {
		return entity.Review{}, fmt.Errorf("find existing review: %w", err)
	}
	if len(existing) > 0 {
		return entity.Review{}, apperr.Conflict("you have already reviewed this book")
	}

	now := s.now()
	rv := entity.Review{
		ID:        s.newID(),
		UserID:    userID,
		BookID:    bookID,
		Rating:    rating,
		Comment:   comment,
		Status:    entity.ReviewPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.SaveReview(ctx, &rv); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return entity.Review{}, apperr.Conflict("you have already reviewed this book")
		}
		return entity.Review{}, fmt.Errorf("save review: %w", err)
	}

	metrics.ReviewsSubmitted.Inc()
	return rv, nil
}

// ListPending returns the moderation queue, newest first.
func (s *Service) ListPending(ctx context.Context) ([]entity.Review, error) {
	return s.repo.FindReviews(ctx, entity.ReviewFilter{Status: entity.ReviewPending})
}

// ListApproved returns the published reviews of a book, newest first.
func (s *Service) ListApproved(ctx context.Context, bookID string) ([]entity.Review, error) {
	if _, err := s.repo.FindBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.FindReviews(ctx, entity.ReviewFilter{BookID: bookID, Status: entity.ReviewApproved})
}

// Moderate applies action to a review and returns the review as it now
// stands. A rejected review is deleted; the returned copy carries the
// rejected status. Approving an approved review changes nothing.
func (s *Service) Moderate(ctx context.Context, reviewID string, action entity.ModerationAction) (entity.Review, error) {
	if _, err := entity.ParseModerationAction(string(action)); err != nil {
		return entity.Review{}, err
	}

	rv, err := s.repo.FindReview(ctx, reviewID)
	if err != nil {
		return entity.Review{}, err
	}

	switch action {
	case entity.ActionReject:
		err = s.reject(ctx, rv)
		rv.Status = entity.ReviewRejected
	default:
		rv, err = s.approve(ctx, rv)
	}
	if err != nil {
		return entity.Review{}, err
	}

	metrics.RecordModeration(string(action))
	logging.Ctx(ctx).Info().
		Str("review_id", rv.ID).
		Str("book_id", rv.BookID).
		Str("action", string(action)).
		Msg("review moderated")
	return rv, nil
}

func (s *Service) approve(ctx context.Context, rv entity.Review) (entity.Review, error) {
	if rv.Status == entity.ReviewApproved {
		return rv, nil
	}

	book, err := s.repo.FindBook(ctx, rv.BookID)
	if err != nil {
		return entity.Review{}, err
	}

	rv.Status = entity.ReviewApproved
	rv.UpdatedAt = s.now()
	if err := s.repo.SaveReview(ctx, &rv); err != nil {
		return entity.Review{}, fmt.Errorf("save review: %w", err)
	}

	if err := s.recompute(ctx, &book); err != nil {
		return entity.Review{}, err
	}
	return rv, nil
}

// reject deletes the review. An approved review counted towards the book's
// rating, so the book is recomputed without it.
func (s *Service) reject(ctx context.Context, rv entity.Review) error {
	if err := s.repo.DeleteReview(ctx, rv.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if rv.Status != entity.ReviewApproved {
		return nil
	}

	book, err := s.repo.FindBook(ctx, rv.BookID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.recompute(ctx, &book)
}

func (s *Service) recompute(ctx context.Context, book *entity.Book) error {
	approved, err := s.repo.FindReviews(ctx, entity.ReviewFilter{BookID: book.ID, Status: entity.ReviewApproved})
	if err != nil {
		return fmt.Errorf("load approved reviews: %w", err)
	}

	book.AverageRating, book.TotalRatings = Aggregate(approved)
	if err := s.repo.SaveBook(ctx, book); err != nil {
		return fmt.Errorf("save book rating: %w", err)
	}
	return nil
}

// Aggregate returns the mean rating and the number of reviews. The mean of no
// reviews is 0.
func Aggregate(reviews []entity.Review) (float64, int) {
	if len(reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), len(reviews)
}
