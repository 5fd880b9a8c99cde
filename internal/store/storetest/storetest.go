// Package storetest is the conformance suite every store driver must pass.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"
	"bookworm/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

var base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

// Run runs the suite against the stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"UserRoundTrip", testUserRoundTrip},
		{"UserUniqueness", testUserUniqueness},
		{"UserEmailChange", testUserEmailChange},
		{"ListUsersNewestFirst", testListUsersNewestFirst},
		{"BookRoundTrip", testBookRoundTrip},
		{"ListBooksFilters", testListBooksFilters},
		{"ListBooksOrdering", testListBooksOrdering},
		{"ListBooksPaging", testListBooksPaging},
		{"GenreUniqueness", testGenreUniqueness},
		{"GenresNewestFirst", testGenresNewestFirst},
		{"ReviewFilters", testReviewFilters},
		{"ReviewPairUnique", testReviewPairUnique},
		{"DeleteMissing", testDeleteMissing},
		{"Ping", testPing},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			tc.fn(t, s)
		})
	}
}

func newUser(id, email, authID string, created time.Time) *entity.User {
	return &entity.User{
		ID:             id,
		Name:           "User " + id,
		Email:          email,
		AuthID:         authID,
		Role:           entity.RoleUser,
		Shelves:        entity.EmptyShelves(),
		ReadingGoal:    entity.ReadingGoal{Year: 2026},
		FavoriteGenres: []string{},
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func newBook(id, title, author, genreID string, rating float64, created time.Time) *entity.Book {
	return &entity.Book{
		ID:            id,
		Title:         title,
		Author:        author,
		GenreID:       genreID,
		AverageRating: rating,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func newReview(id, userID, bookID string, status entity.ReviewStatus, created time.Time) *entity.Review {
	return &entity.Review{
		ID:        id,
		UserID:    userID,
		BookID:    bookID,
		Rating:    4,
		Comment:   "good read",
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func bookIDs(books []entity.Book) []string {
	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}

func testUserRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser("u1", "reader@example.com", "auth-1", at(0))
	u.Shelves.Move("b1", entity.ShelfRead)
	u.Shelves.Move("b2", entity.ShelfCurrentlyReading)
	u.Shelves.SetProgress("b2", 40)
	u.FavoriteGenres = []string{"g1"}
	u.ReadingGoal.Target = 12
	require.NoError(t, s.SaveUser(ctx, u))

	for name, find := range map[string]func() (entity.User, error){
		"id":    func() (entity.User, error) { return s.FindUserByID(ctx, "u1") },
		"email": func() (entity.User, error) { return s.FindUserByEmail(ctx, "reader@example.com") },
		"auth":  func() (entity.User, error) { return s.FindUserByAuthID(ctx, "auth-1") },
	} {
		got, err := find()
		require.NoError(t, err, name)
		assert.Equal(t, "u1", got.ID, name)
		assert.Equal(t, "auth-1", got.AuthID, name)
		assert.Equal(t, entity.RoleUser, got.Role, name)
		assert.Equal(t, []string{"b1"}, got.Shelves.Read, name)
		assert.Empty(t, got.Shelves.WantToRead, name)
		assert.Equal(t, []entity.ReadingEntry{{BookID: "b2", Progress: 40}}, got.Shelves.CurrentlyReading, name)
		assert.Equal(t, []string{"g1"}, got.FavoriteGenres, name)
		assert.Equal(t, entity.ReadingGoal{Year: 2026, Target: 12}, got.ReadingGoal, name)
		assert.True(t, u.CreatedAt.Equal(got.CreatedAt), name)
	}

	_, err := s.FindUserByID(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = s.FindUserByEmail(ctx, "missing@example.com")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = s.FindUserByAuthID(ctx, "")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func testUserUniqueness(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveUser(ctx, newUser("u1", "a@example.com", "auth-1", at(0))))

	err := s.SaveUser(ctx, newUser("u2", "a@example.com", "auth-2", at(1)))
	assert.True(t, errors.Is(err, apperr.ErrConflict), "duplicate email: %v", err)

	err = s.SaveUser(ctx, newUser("u3", "c@example.com", "auth-1", at(2)))
	assert.True(t, errors.Is(err, apperr.ErrConflict), "duplicate auth reference: %v", err)

	// Saving the same user again is an update, not a conflict.
	u, err := s.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	u.Name = "Renamed"
	require.NoError(t, s.SaveUser(ctx, &u))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Renamed", users[0].Name)
}

func testUserEmailChange(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser("u1", "old@example.com", "auth-1", at(0))
	require.NoError(t, s.SaveUser(ctx, u))

	u.Email = "new@example.com"
	require.NoError(t, s.SaveUser(ctx, u))

	_, err := s.FindUserByEmail(ctx, "old@example.com")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	got, err := s.FindUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	// The released address can be taken by someone else.
	require.NoError(t, s.SaveUser(ctx, newUser("u2", "old@example.com", "auth-2", at(1))))
}

func testListUsersNewestFirst(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveUser(ctx, newUser("u1", "1@example.com", "a1", at(0))))
	require.NoError(t, s.SaveUser(ctx, newUser("u2", "2@example.com", "a2", at(2))))
	require.NoError(t, s.SaveUser(ctx, newUser("u3", "3@example.com", "a3", at(1))))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"u2", "u3", "u1"}, ids)
}

func testBookRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	b := newBook("b1", "Dune", "Frank Herbert", "g1", 0, at(0))
	b.Description = "Spice"
	b.CoverImage = "https://img.example.com/dune.jpg"
	require.NoError(t, s.SaveBook(ctx, b))

	b.AverageRating = 4.5
	b.TotalRatings = 2
	require.NoError(t, s.SaveBook(ctx, b))

	got, err := s.FindBook(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert", got.Author)
	assert.Equal(t, "Spice", got.Description)
	assert.Equal(t, "https://img.example.com/dune.jpg", got.CoverImage)
	assert.Equal(t, "g1", got.GenreID)
	assert.InDelta(t, 4.5, got.AverageRating, 1e-9)
	assert.Equal(t, 2, got.TotalRatings)

	require.NoError(t, s.DeleteBook(ctx, "b1"))
	_, err = s.FindBook(ctx, "b1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func seedBooks(t *testing.T, s store.Store) {
	ctx := context.Background()
	books := []*entity.Book{
		newBook("b1", "Dune", "Frank Herbert", "scifi", 4.5, at(0)),
		newBook("b2", "Foundation", "Isaac Asimov", "scifi", 4.5, at(1)),
		newBook("b3", "Emma", "Jane Austen", "classic", 3.0, at(2)),
		newBook("b4", "Persuasion", "Jane Austen", "classic", 5.0, at(3)),
		newBook("b5", "100% Coverage", "Some_Author", "tech", 0, at(4)),
	}
	for _, b := range books {
		require.NoError(t, s.SaveBook(ctx, b))
	}
}

func testListBooksFilters(t *testing.T, s store.Store) {
	ctx := context.Background()
	seedBooks(t, s)

	cases := []struct {
		name   string
		filter entity.BookFilter
		want   []string
	}{
		{"all", entity.BookFilter{}, []string{"b5", "b4", "b3", "b2", "b1"}},
		{"genre", entity.BookFilter{GenreID: "classic"}, []string{"b4", "b3"}},
		{"title search ignores case", entity.BookFilter{Search: "dUNE"}, []string{"b1"}},
		{"author search", entity.BookFilter{Search: "austen"}, []string{"b4", "b3"}},
		{"search is literal", entity.BookFilter{Search: "100%"}, []string{"b5"}},
		{"underscore is literal", entity.BookFilter{Search: "e_a"}, []string{"b5"}},
		{"ids", entity.BookFilter{IDs: []string{"b1", "b3", "nope"}}, []string{"b3", "b1"}},
		{"empty ids match nothing", entity.BookFilter{IDs: []string{}}, []string{}},
		{"exclude", entity.BookFilter{GenreID: "scifi", ExcludeIDs: []string{"b1"}}, []string{"b2"}},
	}
	for _, c := range cases {
		got, err := s.ListBooks(ctx, c.filter)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.want, bookIDs(got), c.name)
	}
}

func testListBooksOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()
	seedBooks(t, s)

	got, err := s.ListBooks(ctx, entity.BookFilter{Sort: entity.SortTopRated})
	require.NoError(t, err)
	// Equal ratings fall back to creation time, oldest first.
	assert.Equal(t, []string{"b4", "b1", "b2", "b3", "b5"}, bookIDs(got))

	got, err = s.ListBooks(ctx, entity.BookFilter{Sort: entity.SortTopRated, Limit: 2, ExcludeIDs: []string{"b4"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, bookIDs(got))
}

func testListBooksPaging(t *testing.T, s store.Store) {
	ctx := context.Background()
	seedBooks(t, s)

	page, err := s.ListBooks(ctx, entity.BookFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"b3", "b2"}, bookIDs(page))

	page, err = s.ListBooks(ctx, entity.BookFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)

	total, err := s.CountBooks(ctx, entity.BookFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	total, err = s.CountBooks(ctx, entity.BookFilter{Search: "austen"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func testGenreUniqueness(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := &entity.Genre{ID: "g1", Name: "Science Fiction", Slug: "science-fiction", CreatedAt: at(0), UpdatedAt: at(0)}
	require.NoError(t, s.SaveGenre(ctx, g))

	dupName := &entity.Genre{ID: "g2", Name: "Science Fiction", Slug: "other", CreatedAt: at(1), UpdatedAt: at(1)}
	assert.True(t, errors.Is(s.SaveGenre(ctx, dupName), apperr.ErrConflict))

	dupSlug := &entity.Genre{ID: "g3", Name: "Other", Slug: "science-fiction", CreatedAt: at(1), UpdatedAt: at(1)}
	assert.True(t, errors.Is(s.SaveGenre(ctx, dupSlug), apperr.ErrConflict))

	g.Name, g.Slug = "Sci-Fi", "sci-fi"
	require.NoError(t, s.SaveGenre(ctx, g))
	got, err := s.FindGenre(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "sci-fi", got.Slug)

	// The old name is free again after the rename.
	require.NoError(t, s.SaveGenre(ctx, &entity.Genre{ID: "g4", Name: "Science Fiction", Slug: "science-fiction", CreatedAt: at(2), UpdatedAt: at(2)}))

	require.NoError(t, s.DeleteGenre(ctx, "g1"))
	_, err = s.FindGenre(ctx, "g1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func testGenresNewestFirst(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i, name := range []string{"Fantasy", "History", "Poetry"} {
		g := &entity.Genre{ID: name, Name: name, Slug: name, CreatedAt: at(i), UpdatedAt: at(i)}
		require.NoError(t, s.SaveGenre(ctx, g))
	}

	genres, err := s.FindGenres(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 3)
	assert.Equal(t, "Poetry", genres[0].ID)
	assert.Equal(t, "Fantasy", genres[2].ID)
}

func testReviewFilters(t *testing.T, s store.Store) {
	ctx := context.Background()
	reviews := []*entity.Review{
		newReview("r1", "u1", "b1", entity.ReviewPending, at(0)),
		newReview("r2", "u2", "b1", entity.ReviewApproved, at(1)),
		newReview("r3", "u1", "b2", entity.ReviewApproved, at(2)),
		newReview("r4", "u3", "b1", entity.ReviewPending, at(3)),
	}
	for _, r := range reviews {
		require.NoError(t, s.SaveReview(ctx, r))
	}

	ids := func(rs []entity.Review) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	cases := []struct {
		filter entity.ReviewFilter
		want   []string
	}{
		{entity.ReviewFilter{}, []string{"r4", "r3", "r2", "r1"}},
		{entity.ReviewFilter{Status: entity.ReviewPending}, []string{"r4", "r1"}},
		{entity.ReviewFilter{BookID: "b1", Status: entity.ReviewApproved}, []string{"r2"}},
		{entity.ReviewFilter{UserID: "u1"}, []string{"r3", "r1"}},
		{entity.ReviewFilter{UserID: "nobody"}, []string{}},
	}
	for i, c := range cases {
		got, err := s.FindReviews(ctx, c.filter)
		require.NoError(t, err)
		assert.Equal(t, c.want, ids(got), "%d. FindReviews(%+v)", i, c.filter)
	}

	r, err := s.FindReview(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, entity.ReviewApproved, r.Status)
	assert.Equal(t, 4, r.Rating)
	assert.Equal(t, "good read", r.Comment)
}

func testReviewPairUnique(t *testing.T, s store.Store) {
	ctx := context.Background()
	first := newReview("r1", "u1", "b1", entity.ReviewPending, at(0))
	require.NoError(t, s.SaveReview(ctx, first))

	err := s.SaveReview(ctx, newReview("r2", "u1", "b1", entity.ReviewPending, at(1)))
	assert.True(t, errors.Is(err, apperr.ErrConflict), "duplicate pair: %v", err)

	first.Status = entity.ReviewApproved
	require.NoError(t, s.SaveReview(ctx, first))

	require.NoError(t, s.DeleteReview(ctx, "r1"))
	_, err = s.FindReview(ctx, "r1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// Deleting releases the pair.
	require.NoError(t, s.SaveReview(ctx, newReview("r3", "u1", "b1", entity.ReviewPending, at(2))))
}

func testDeleteMissing(t *testing.T, s store.Store) {
	ctx := context.Background()
	assert.True(t, errors.Is(s.DeleteBook(ctx, "missing"), apperr.ErrNotFound))
	assert.True(t, errors.Is(s.DeleteGenre(ctx, "missing"), apperr.ErrNotFound))
	assert.True(t, errors.Is(s.DeleteReview(ctx, "missing"), apperr.ErrNotFound))
}

func testPing(t *testing.T, s store.Store) {
	assert.NoError(t, s.Ping(context.Background()))
}
