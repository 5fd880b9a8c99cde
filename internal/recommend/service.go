// Package recommend suggests books from a reader's read shelf.
//
// A reader's favourite genre is the genre that occurs most often among the
// books on their read shelf; ties go to the lowest genre ID. Books of that
// genre they have not read come first, highest rated first. When fewer than
// MinGenreMatches are found the list is backfilled with the best rated books
// of the whole catalog. Anonymous callers and readers with an empty read
// shelf get the popular list only.
package recommend

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"
	"bookworm/internal/logging"
	"bookworm/internal/metrics"
)

const (
	DefaultLimit    = 8
	MaxLimit        = 50
	MinGenreMatches = 4

	ReasonPopular     = "Popular"
	reasonGenrePrefix = "Because you like "
)

// Result is an ordered list of suggestions with the reason shown to the reader.
type Result struct {
	Books  []entity.Book `json:"books"`
	Reason string        `json:"reason"`
}

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithCache enables caching of results for ttl. Cache failures never fail a
// request.
func (s *Service) WithCache(c Cache, ttl time.Duration) *Service {
	s.cache = c
	s.cacheTTL = ttl
	return s
}

// Recommend returns up to limit books for userID, or for an anonymous caller
// when userID is empty. A limit of zero or less means DefaultLimit.
func (s *Service) Recommend(ctx context.Context, userID string, limit int) (Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	var read []string
	if userID != "" {
		u, err := s.repo.FindUserByID(ctx, userID)
		if err != nil {
			return Result{}, err
		}
		read = u.Shelves.Read
	}

	key := cacheKey(userID, limit, read)
	if res, ok := s.cached(ctx, key); ok {
		return res, nil
	}

	res, err := s.compute(ctx, read, limit)
	if err != nil {
		return Result{}, err
	}

	metrics.RecordRecommendation(kindOf(res))
	s.store(ctx, key, res)
	return res, nil
}

func (s *Service) compute(ctx context.Context, read []string, limit int) (Result, error) {
	res := Result{Books: []entity.Book{}}

	if len(read) > 0 {
		genreID, err := s.favouriteGenre(ctx, read)
		if err != nil {
			return Result{}, err
		}
		if genreID != "" {
			g, err := s.repo.FindGenre(ctx, genreID)
			switch {
			case err == nil:
				books, err := s.repo.ListBooks(ctx, entity.BookFilter{
					GenreID:    genreID,
					ExcludeIDs: read,
					Sort:       entity.SortTopRated,
					Limit:      limit,
				})
				if err != nil {
					return Result{}, fmt.Errorf("list genre books: %w", err)
				}
				res.Books = books
				res.Reason = reasonGenrePrefix + g.Name
			case errors.Is(err, apperr.ErrNotFound):
				// Books still point at a deleted genre; fall through to popular.
			default:
				return Result{}, err
			}
		}
	}

	remaining := limit - len(res.Books)
	if len(res.Books) >= MinGenreMatches || remaining <= 0 {
		return res, nil
	}

	exclude := make([]string, 0, len(res.Books)+len(read))
	for _, b := range res.Books {
		exclude = append(exclude, b.ID)
	}
	// Backfill is popular books the reader has not finished yet.
	exclude = append(exclude, read...)

	backfill, err := s.repo.ListBooks(ctx, entity.BookFilter{
		ExcludeIDs: exclude,
		Sort:       entity.SortTopRated,
		Limit:      remaining,
	})
	if err != nil {
		return Result{}, fmt.Errorf("list popular books: %w", err)
	}
	res.Books = append(res.Books, backfill...)
	if res.Reason == "" {
		res.Reason = ReasonPopular
	}
	return res, nil
}

// favouriteGenre returns the most frequent genre among the read books, or ""
// when none of them resolve to a book with a genre.
func (s *Service) favouriteGenre(ctx context.Context, read []string) (string, error) {
	books, err := s.repo.ListBooks(ctx, entity.BookFilter{IDs: read})
	if err != nil {
		return "", fmt.Errorf("list read books: %w", err)
	}

	counts := make(map[string]int)
	for _, b := range books {
		if b.GenreID != "" {
			counts[b.GenreID]++
		}
	}
	return TopGenre(counts), nil
}

// TopGenre picks the genre with the highest count, the lowest ID on a tie.
func TopGenre(counts map[string]int) string {
	best, bestCount := "", 0
	for id, n := range counts {
		if n > bestCount || (n == bestCount && cmp.Less(id, best)) {
			best, bestCount = id, n
		}
	}
	return best
}

func kindOf(res Result) string {
	switch {
	case len(res.Books) == 0:
		return "empty"
	case strings.HasPrefix(res.Reason, reasonGenrePrefix):
		return "genre"
	default:
		return "popular"
	}
}

// cacheKey changes whenever the read shelf changes, so a stale entry is only
// possible through catalog or rating updates within the TTL.
func cacheKey(userID string, limit int, read []string) string {
	if userID == "" {
		return fmt.Sprintf("recommend:anon:%d", limit)
	}
	h := sha256.New()
	for _, id := range read {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("recommend:%s:%d:%s", userID, limit, hex.EncodeToString(h.Sum(nil))[:16])
}

func (s *Service) cached(ctx context.Context, key string) (Result, bool) {
	if s.cache == nil {
		return Result{}, false
	}
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("recommendation cache read failed")
		return Result{}, false
	}
	metrics.RecordCacheLookup(ok)
	if !ok {
		return Result{}, false
	}

	var res Result
	if err := json.Unmarshal(b, &res); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return Result{}, false
	}
	return res, true
}

func (s *Service) store(ctx context.Context, key string, res Result) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("recommendation cache write failed")
	}
}
