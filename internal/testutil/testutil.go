// Package testutil holds fixtures and HTTP helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookworm/internal/entity"
	"bookworm/internal/platform/crypto"
	"bookworm/internal/store/badgerstore"

	"github.com/stretchr/testify/require"
)

// Epoch is the base time of fixtures; At offsets it by whole minutes so
// creation order is explicit.
var Epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func At(minutes int) time.Time {
	return Epoch.Add(time.Duration(minutes) * time.Minute)
}

// Clock returns a fixed time source for services that take one.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestUser is a regular user for testing
var TestUser = entity.User{
	ID:             "test-user-id-123",
	Name:           "Test User",
	Email:          "test@example.com",
	AuthID:         "auth|test-user",
	Role:           entity.RoleUser,
	Shelves:        entity.EmptyShelves(),
	ReadingGoal:    entity.ReadingGoal{Year: 2026},
	FavoriteGenres: []string{},
	CreatedAt:      Epoch,
	UpdatedAt:      Epoch,
}

// TestAdminUser is an admin user for testing
var TestAdminUser = entity.User{
	ID:             "test-admin-id-456",
	Name:           "Admin User",
	Email:          "admin@example.com",
	AuthID:         "auth|test-admin",
	Role:           entity.RoleAdmin,
	Shelves:        entity.EmptyShelves(),
	ReadingGoal:    entity.ReadingGoal{Year: 2026},
	FavoriteGenres: []string{},
	CreatedAt:      Epoch,
	UpdatedAt:      Epoch,
}

// TestBook is a catalog book for testing
var TestBook = entity.Book{
	ID:          "test-book-id-789",
	Title:       "Test Book Title",
	Author:      "Test Author",
	Description: "A test book description",
	GenreID:     "test-genre-id",
	CreatedAt:   Epoch,
	UpdatedAt:   Epoch,
}

// NewMemStore opens an in-memory badger store closed at the end of the test.
func NewMemStore(t testing.TB) *badgerstore.Store {
	t.Helper()
	s, err := badgerstore.Open(badgerstore.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// User returns a fresh user fixture with its own shelves.
func User(id string) entity.User {
	u := TestUser
	u.ID = id
	u.Email = id + "@example.com"
	u.AuthID = "auth|" + id
	u.Shelves = entity.EmptyShelves()
	u.FavoriteGenres = []string{}
	return u
}

// Book returns a book fixture created minutes after Epoch.
func Book(id, genreID string, rating float64, minutes int) entity.Book {
	return entity.Book{
		ID:            id,
		Title:         "Book " + id,
		Author:        "Author " + id,
		GenreID:       genreID,
		AverageRating: rating,
		CreatedAt:     At(minutes),
		UpdatedAt:     At(minutes),
	}
}

func Genre(id, name string, minutes int) entity.Genre {
	return entity.Genre{ID: id, Name: name, Slug: id, CreatedAt: At(minutes), UpdatedAt: At(minutes)}
}

// Seeder is the write side of a store, used to load fixtures.
type Seeder interface {
	SaveUser(ctx context.Context, u *entity.User) error
	SaveBook(ctx context.Context, b *entity.Book) error
	SaveGenre(ctx context.Context, g *entity.Genre) error
	SaveReview(ctx context.Context, r *entity.Review) error
}

// Seed saves every fixture, failing the test on the first error.
func Seed(t testing.TB, s Seeder, fixtures ...any) {
	t.Helper()
	ctx := context.Background()
	for _, f := range fixtures {
		var err error
		switch v := f.(type) {
		case entity.User:
			err = s.SaveUser(ctx, &v)
		case entity.Book:
			err = s.SaveBook(ctx, &v)
		case entity.Genre:
			err = s.SaveGenre(ctx, &v)
		case entity.Review:
			err = s.SaveReview(ctx, &v)
		default:
			err = fmt.Errorf("unsupported fixture %T", f)
		}
		require.NoError(t, err)
	}
}

// GenerateTestToken signs an identity-provider token for testing
func GenerateTestToken(secret, authRef, email string) string {
	token, _ := crypto.GenerateToken(secret, authRef, email, "Test", time.Hour)
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token for testing
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// Envelope is the decoded response envelope.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

// DecodeEnvelope decodes a recorded response, and its data into dst when
// dst is not nil.
func DecodeEnvelope(t testing.TB, w *httptest.ResponseRecorder, dst any) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env), "body: %s", w.Body.String())
	if dst != nil {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
	return env
}
