package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"
	"bookworm/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)

func reviewAt(id, userID, bookID string, at time.Time, status entity.ReviewStatus) entity.Review {
	return entity.Review{ID: id, UserID: userID, BookID: bookID, Rating: 3, Comment: "x", Status: status, CreatedAt: at, UpdatedAt: at}
}

func TestService_UserStats(t *testing.T) {
	st := testutil.NewMemStore(t)
	u := testutil.User("u1")
	u.ReadingGoal = entity.ReadingGoal{Year: 2026, Target: 3}
	for _, b := range []string{"f1", "f2", "m1", "x1", "gone"} {
		u.Shelves.Move(b, entity.ShelfRead)
	}
	u.Shelves.Move("f3", entity.ShelfCurrentlyReading)

	testutil.Seed(t, st,
		u,
		testutil.Genre("g-f", "Fantasy", 0),
		testutil.Genre("g-m", "Mystery", 0),
		testutil.Book("f1", "g-f", 0, 0),
		testutil.Book("f2", "g-f", 0, 1),
		testutil.Book("f3", "g-f", 0, 2),
		testutil.Book("m1", "g-m", 0, 3),
		testutil.Book("x1", "deleted-genre", 0, 4),
		reviewAt("r1", "u1", "f1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), entity.ReviewApproved),
		reviewAt("r2", "u1", "f2", time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), entity.ReviewPending),
		reviewAt("r3", "u1", "m1", time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), entity.ReviewApproved),
		reviewAt("r4", "u1", "x1", time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), entity.ReviewApproved),
		reviewAt("r5", "u2", "m1", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), entity.ReviewApproved),
	)

	svc := NewService(st)
	svc.now = testutil.Clock(now)

	got, err := svc.UserStats(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 4, got.BooksRead, "dangling read references are not counted")
	assert.Equal(t, 3, got.ReadingGoal)
	assert.Equal(t, 133, got.Progress)
	assert.Equal(t, []NameValue{{"Fantasy", 2}, {"Mystery", 1}, {OtherGenre, 1}}, got.GenreData)
	assert.Equal(t, []MonthCount{
		{"Sep", 2025, 1},
		{"Oct", 2025, 0},
		{"Nov", 2025, 0},
		{"Dec", 2025, 0},
		{"Jan", 2026, 0},
		{"Feb", 2026, 2},
	}, got.MonthlyData)
}

func TestService_UserStatsEmpty(t *testing.T) {
	st := testutil.NewMemStore(t)
	testutil.Seed(t, st, testutil.User("u1"), testutil.Book("b1", "g1", 0, 0))
	svc := NewService(st)
	svc.now = testutil.Clock(now)

	got, err := svc.UserStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, got.BooksRead)
	assert.Zero(t, got.Progress)
	assert.Empty(t, got.GenreData)
	assert.NotNil(t, got.GenreData)
	assert.Len(t, got.MonthlyData, MonthsShown)

	_, err = svc.UserStats(context.Background(), "ghost")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestService_Dashboard(t *testing.T) {
	st := testutil.NewMemStore(t)
	testutil.Seed(t, st,
		testutil.User("u1"), testutil.User("u2"),
		testutil.Genre("g-f", "Fantasy", 0),
		testutil.Genre("g-m", "Mystery", 0),
		testutil.Genre("g-p", "Poetry", 0),
		testutil.Book("f1", "g-f", 0, 0),
		testutil.Book("f2", "g-f", 0, 1),
		testutil.Book("m1", "g-m", 0, 2),
		testutil.Book("x1", "deleted-genre", 0, 3),
		reviewAt("r1", "u1", "f1", now, entity.ReviewPending),
		reviewAt("r2", "u2", "f1", now, entity.ReviewPending),
		reviewAt("r3", "u1", "m1", now, entity.ReviewApproved),
	)

	got, err := NewService(st).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Dashboard{
		TotalBooks:     4,
		TotalUsers:     2,
		PendingReviews: 2,
		TotalGenres:    3,
		ChartData:      []NameValue{{"Fantasy", 2}, {"Mystery", 1}},
	}, got)
}

func TestService_DashboardPropagatesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)

	boom := errors.New("connection reset")
	repo.EXPECT().CountBooks(gomock.Any(), gomock.Any()).Return(0, boom).AnyTimes()
	repo.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	repo.EXPECT().FindGenres(gomock.Any()).Return(nil, nil).AnyTimes()
	repo.EXPECT().ListUsers(gomock.Any()).Return(nil, nil).AnyTimes()
	repo.EXPECT().FindReviews(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := NewService(repo).Dashboard(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestProgress(t *testing.T) {
	cases := []struct {
		read, target, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{12, 12, 100},
		{30, 12, 250},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Progress(c.read, c.target), "%d/%d", c.read, c.target)
	}
}

func TestMonthly_YearBoundary(t *testing.T) {
	reviews := []entity.Review{
		{CreatedAt: time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	got := Monthly(reviews, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC), 6)

	require.Len(t, got, 6)
	assert.Equal(t, MonthCount{"Aug", 2025, 0}, got[0])
	assert.Equal(t, MonthCount{"Dec", 2025, 1}, got[4])
	assert.Equal(t, MonthCount{"Jan", 2026, 1}, got[5])
}
