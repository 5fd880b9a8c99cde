package badgerstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"bookworm/internal/entity"
)

// userDoc stores the auth reference, which entity.User hides from JSON.
type userDoc struct {
	entity.User
	AuthID string `json:"auth_id"`
}

func toUserDoc(u *entity.User) userDoc {
	return userDoc{User: *u, AuthID: u.AuthID}
}

func (d userDoc) user() entity.User {
	u := d.User
	u.AuthID = d.AuthID
	u.Shelves.Normalize()
	if u.FavoriteGenres == nil {
		u.FavoriteGenres = []string{}
	}
	return u
}

func userIndexes(d userDoc) []string {
	var idx []string
	if d.Email != "" {
		idx = append(idx, userEmailIndex+strings.ToLower(d.Email))
	}
	if d.AuthID != "" {
		idx = append(idx, userAuthIndex+d.AuthID)
	}
	return idx
}

func bookIndexes(entity.Book) []string { return nil }

func genreIndexes(g entity.Genre) []string {
	return []string{genreNameIndex + g.Name, genreSlugIndex + g.Slug}
}

func reviewIndexes(r entity.Review) []string {
	return []string{reviewPairIndex + r.UserID + ":" + r.BookID}
}

// Users

func (s *Store) FindUserByID(_ context.Context, id string) (entity.User, error) {
	d, err := find[userDoc](s.db, userPrefix+id, "user")
	if err != nil {
		return entity.User{}, err
	}
	return d.user(), nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (entity.User, error) {
	d, err := findByIndex[userDoc](s.db, userEmailIndex+strings.ToLower(email), userPrefix, "user")
	if err != nil {
		return entity.User{}, err
	}
	return d.user(), nil
}

func (s *Store) FindUserByAuthID(_ context.Context, authID string) (entity.User, error) {
	d, err := findByIndex[userDoc](s.db, userAuthIndex+authID, userPrefix, "user")
	if err != nil {
		return entity.User{}, err
	}
	return d.user(), nil
}

func (s *Store) ListUsers(_ context.Context) ([]entity.User, error) {
	docs, err := scan[userDoc](s.db, userPrefix)
	if err != nil {
		return nil, err
	}
	users := make([]entity.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.user())
	}
	slices.SortStableFunc(users, func(a, b entity.User) int {
		return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
	})
	return users, nil
}

func (s *Store) SaveUser(_ context.Context, u *entity.User) error {
	return save(s.db, userPrefix+u.ID, u.ID, toUserDoc(u), userIndexes, "user",
		"a user with this email or auth reference already exists")
}

// Books

func (s *Store) FindBook(_ context.Context, id string) (entity.Book, error) {
	return find[entity.Book](s.db, bookPrefix+id, "book")
}

func (s *Store) ListBooks(_ context.Context, f entity.BookFilter) ([]entity.Book, error) {
	books, err := scan[entity.Book](s.db, bookPrefix)
	if err != nil {
		return nil, err
	}
	return FilterBooks(books, f), nil
}

func (s *Store) CountBooks(_ context.Context, f entity.BookFilter) (int, error) {
	books, err := scan[entity.Book](s.db, bookPrefix)
	if err != nil {
		return 0, err
	}
	f.Limit, f.Offset = 0, 0
	return len(FilterBooks(books, f)), nil
}

func (s *Store) SaveBook(_ context.Context, b *entity.Book) error {
	return save(s.db, bookPrefix+b.ID, b.ID, *b, bookIndexes, "book", "book already exists")
}

func (s *Store) DeleteBook(_ context.Context, id string) error {
	return remove(s.db, bookPrefix+id, bookIndexes, "book")
}

// Reviews

func (s *Store) FindReview(_ context.Context, id string) (entity.Review, error) {
	return find[entity.Review](s.db, reviewPrefix+id, "review")
}

func (s *Store) FindReviews(_ context.Context, f entity.ReviewFilter) ([]entity.Review, error) {
	all, err := scan[entity.Review](s.db, reviewPrefix)
	if err != nil {
		return nil, err
	}
	reviews := slices.DeleteFunc(all, func(r entity.Review) bool {
		return (f.UserID != "" && r.UserID != f.UserID) ||
			(f.BookID != "" && r.BookID != f.BookID) ||
			(f.Status != "" && r.Status != f.Status)
	})
	slices.SortStableFunc(reviews, func(a, b entity.Review) int {
		return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
	})
	if reviews == nil {
		reviews = []entity.Review{}
	}
	return reviews, nil
}

func (s *Store) SaveReview(_ context.Context, r *entity.Review) error {
	return save(s.db, reviewPrefix+r.ID, r.ID, *r, reviewIndexes, "review",
		"a review for this book by this user already exists")
}

func (s *Store) DeleteReview(_ context.Context, id string) error {
	return remove(s.db, reviewPrefix+id, reviewIndexes, "review")
}

// Genres

func (s *Store) FindGenre(_ context.Context, id string) (entity.Genre, error) {
	return find[entity.Genre](s.db, genrePrefix+id, "genre")
}

func (s *Store) FindGenres(_ context.Context) ([]entity.Genre, error) {
	genres, err := scan[entity.Genre](s.db, genrePrefix)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(genres, func(a, b entity.Genre) int {
		return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
	})
	if genres == nil {
		genres = []entity.Genre{}
	}
	return genres, nil
}

func (s *Store) SaveGenre(_ context.Context, g *entity.Genre) error {
	return save(s.db, genrePrefix+g.ID, g.ID, *g, genreIndexes, "genre",
		"a genre with this name already exists")
}

func (s *Store) DeleteGenre(_ context.Context, id string) error {
	return remove(s.db, genrePrefix+id, genreIndexes, "genre")
}

func newestFirst(ta, tb int64, ida, idb string) int {
	if c := cmp.Compare(tb, ta); c != 0 {
		return c
	}
	return strings.Compare(ida, idb)
}

// FilterBooks applies a BookFilter in memory: matching, ordering, then
// offset and limit.
func FilterBooks(books []entity.Book, f entity.BookFilter) []entity.Book {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]entity.Book, 0, len(books))
	for _, b := range books {
		if f.GenreID != "" && b.GenreID != f.GenreID {
			continue
		}
		if f.IDs != nil && !slices.Contains(f.IDs, b.ID) {
			continue
		}
		if slices.Contains(f.ExcludeIDs, b.ID) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Title), search) &&
			!strings.Contains(strings.ToLower(b.Author), search) {
			continue
		}
		out = append(out, b)
	}

	switch f.Sort {
	case entity.SortTopRated:
		slices.SortStableFunc(out, func(a, b entity.Book) int {
			if c := cmp.Compare(b.AverageRating, a.AverageRating); c != 0 {
				return c
			}
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
	default:
		slices.SortStableFunc(out, func(a, b entity.Book) int {
			return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
		})
	}

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []entity.Book{}
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
