// Package ingest imports books from Open Library into the catalog.
package ingest

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
	"bookworm/internal/platform/openlibrary"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
	batchSize    = 20

	maxTitle       = 300
	maxAuthor      = 200
	maxDescription = 5000
)

// Request asks for up to Limit books on Subject, filed under GenreID.
type Request struct {
	Subject string
	GenreID string
	Limit   int
}

type Report struct {
	Found    int           `json:"found"`
	Skipped  int           `json:"skipped"`
	Imported []entity.Book `json:"imported"`
}

// ErrSourceUnavailable wraps failures of the remote search.
var ErrSourceUnavailable = errors.New("catalog source unavailable")

type candidate struct {
	title  string
	author string
	isbn   string
}

type Service struct {
	source Source
	repo   Repository
	now    func() time.Time
	newID  func() string
}

func NewService(source Source, repo Repository) *Service {
	return &Service{source: source, repo: repo, now: time.Now, newID: uuid.NewString}
}

// Import searches the source by subject and creates the books the catalog
// does not have yet. A book is already present when a catalog entry has the
// same title and author, ignoring case. Hits without a title or an author are
// skipped. Details (cover, description) are best effort: when they cannot be
// fetched the book is created from the search hit alone.
func (s *Service) Import(ctx context.Context, req Request) (Report, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return Report{}, apperr.InvalidArgument("subject is required")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	if _, err := s.repo.FindGenre(ctx, req.GenreID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Report{}, apperr.InvalidArgument("unknown genre %q", req.GenreID)
		}
		return Report{}, err
	}

	existing, err := s.repo.ListBooks(ctx, entity.BookFilter{})
	if err != nil {
		return Report{}, err
	}
	seen := make(map[string]bool, len(existing))
	for _, b := range existing {
		seen[bookKey(b.Title, b.Author)] = true
	}

	// Ask for extra hits since some are skipped.
	res, err := s.source.SearchBySubject(ctx, subject, limit*2)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	report := Report{Found: len(res.Docs), Imported: []entity.Book{}}
	var picked []candidate
	for _, doc := range res.Docs {
		c := candidate{title: strings.TrimSpace(doc.Title), isbn: doc.PreferredISBN()}
		if len(doc.AuthorNames) > 0 {
			c.author = strings.TrimSpace(doc.AuthorNames[0])
		}
		key := bookKey(c.title, c.author)
		if c.title == "" || c.author == "" || seen[key] || len(picked) == limit {
			report.Skipped++
			continue
		}
		seen[key] = true
		picked = append(picked, c)
	}

	details := s.hydrate(ctx, picked)

	now := s.now()
	for _, c := range picked {
		d := details[c.isbn]
		description := d.NotesText()
		if description == "" {
			description = d.Subtitle
		}
		b := entity.Book{
			ID:          s.newID(),
			Title:       truncate(c.title, maxTitle),
			Author:      truncate(c.author, maxAuthor),
			Description: truncate(strings.TrimSpace(description), maxDescription),
			CoverImage:  d.Cover.Large,
			GenreID:     req.GenreID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.SaveBook(ctx, &b); err != nil {
			return report, fmt.Errorf("save imported book %q: %w", b.Title, err)
		}
		report.Imported = append(report.Imported, b)
	}

	metrics.RecordImport(len(report.Imported))
	logging.Ctx(ctx).Info().
		Str("subject", subject).
		Int("found", report.Found).
		Int("imported", len(report.Imported)).
		Int("skipped", report.Skipped).
		Msg("catalog import finished")
	return report, nil
}

func (s *Service) hydrate(ctx context.Context, picked []candidate) map[string]openlibrary.BookDetails {
	out := make(map[string]openlibrary.BookDetails)
	var isbns []string
	for _, c := range picked {
		if c.isbn != "" {
			isbns = append(isbns, c.isbn)
		}
	}
	for start := 0; start < len(isbns); start += batchSize {
		batch := isbns[start:min(start+batchSize, len(isbns))]
		got, err := s.source.BooksByISBN(ctx, batch)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int("isbns", len(batch)).Msg("book details unavailable")
			continue
		}
		for isbn, d := range got {
			out[isbn] = d
		}
	}
	return out
}

func bookKey(title, author string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + strings.ToLower(strings.TrimSpace(author))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
