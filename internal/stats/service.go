// Package stats computes reading statistics for readers and the admin
// dashboard.
package stats

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"bookworm/internal/entity"

	"golang.org/x/sync/errgroup"
)

// OtherGenre labels read books whose genre is unknown.
const OtherGenre = "Other"

// MonthsShown is the number of months in the monthly activity series.
const MonthsShown = 6

type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type MonthCount struct {
	Name  string `json:"name"`
	Year  int    `json:"year"`
	Books int    `json:"books"`
}

// UserStats summarises one reader. MonthlyData counts the reader's reviews
// per calendar month, oldest month first, ending with the current one.
type UserStats struct {
	BooksRead   int          `json:"books_read"`
	ReadingGoal int          `json:"reading_goal"`
	Progress    int          `json:"progress"`
	GenreData   []NameValue  `json:"genre_data"`
	MonthlyData []MonthCount `json:"monthly_data"`
}

type Dashboard struct {
	TotalBooks     int         `json:"total_books"`
	TotalUsers     int         `json:"total_users"`
	PendingReviews int         `json:"pending_reviews"`
	TotalGenres    int         `json:"total_genres"`
	ChartData      []NameValue `json:"chart_data"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) UserStats(ctx context.Context, userID string) (UserStats, error) {
	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}

	var (
		read    []entity.Book
		names   map[string]string
		reviews []entity.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		read, err = s.repo.ListBooks(gctx, entity.BookFilter{IDs: nonNil(u.Shelves.Read)})
		return err
	})
	g.Go(func() error {
		var err error
		names, err = s.genreNames(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.repo.FindReviews(gctx, entity.ReviewFilter{UserID: u.ID})
		return err
	})
	if err := g.Wait(); err != nil {
		return UserStats{}, fmt.Errorf("load user stats: %w", err)
	}

	counts := make(map[string]int)
	for _, b := range read {
		name, ok := names[b.GenreID]
		if !ok {
			name = OtherGenre
		}
		counts[name]++
	}

	return UserStats{
		BooksRead:   len(read),
		ReadingGoal: u.ReadingGoal.Target,
		Progress:    Progress(len(read), u.ReadingGoal.Target),
		GenreData:   sortedCounts(counts),
		MonthlyData: Monthly(reviews, s.now(), MonthsShown),
	}, nil
}

// Dashboard gathers the catalog-wide counters. ChartData counts books per
// existing genre; books with an unknown genre are left out.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		d       Dashboard
		books   []entity.Book
		genres  []entity.Genre
		users   []entity.User
		pending []entity.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.TotalBooks, err = s.repo.CountBooks(gctx, entity.BookFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		books, err = s.repo.ListBooks(gctx, entity.BookFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		genres, err = s.repo.FindGenres(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.repo.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.repo.FindReviews(gctx, entity.ReviewFilter{Status: entity.ReviewPending})
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}

	names := make(map[string]string, len(genres))
	for _, gn := range genres {
		names[gn.ID] = gn.Name
	}
	counts := make(map[string]int)
	for _, b := range books {
		if name, ok := names[b.GenreID]; ok {
			counts[name]++
		}
	}

	d.TotalUsers = len(users)
	d.PendingReviews = len(pending)
	d.TotalGenres = len(genres)
	d.ChartData = sortedCounts(counts)
	return d, nil
}

func (s *Service) genreNames(ctx context.Context) (map[string]string, error) {
	genres, err := s.repo.FindGenres(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(genres))
	for _, g := range genres {
		names[g.ID] = g.Name
	}
	return names, nil
}

// Progress is the share of the goal reached, in whole percent. It is 0 when
// there is no goal and may exceed 100.
func Progress(read, target int) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(float64(read) / float64(target) * 100))
}

// Monthly counts reviews per calendar month for the n months ending with the
// month of now, oldest first. Months are taken in the time zone of now.
func Monthly(reviews []entity.Review, now time.Time, n int) []MonthCount {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(n - 1), 0)

	out := make([]MonthCount, n)
	for i := range out {
		m := first.AddDate(0, i, 0)
		out[i] = MonthCount{Name: m.Month().String()[:3], Year: m.Year()}
	}
	for _, r := range reviews {
		c := r.CreatedAt.In(now.Location())
		i := (c.Year()-first.Year())*12 + int(c.Month()) - int(first.Month())
		if i >= 0 && i < n {
			out[i].Books++
		}
	}
	return out
}

// sortedCounts orders by count descending, then name.
func sortedCounts(counts map[string]int) []NameValue {
	out := make([]NameValue, 0, len(counts))
	for name, n := range counts {
		out = append(out, NameValue{Name: name, Value: n})
	}
	slices.SortFunc(out, func(a, b NameValue) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// nonNil turns a nil shelf into an empty ID filter, which matches nothing
// instead of every book.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
