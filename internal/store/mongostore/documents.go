package mongostore

import (
	"context"
	"regexp"
	"strings"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	userConflict   = "a user with this email or auth reference already exists"
	reviewConflict = "a review for this book by this user already exists"
	genreConflict  = "a genre with this name already exists"
)

func normalizeUser(u entity.User) entity.User {
	u.Shelves.Normalize()
	if u.FavoriteGenres == nil {
		u.FavoriteGenres = []string{}
	}
	return u
}

// Users

func (s *Store) findUser(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (entity.User, error) {
	u, err := findOne[entity.User](ctx, s, s.users, filter, "user", opts...)
	if err != nil {
		return entity.User{}, err
	}
	return normalizeUser(u), nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (entity.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (entity.User, error) {
	return s.findUser(ctx, bson.M{"email": email}, options.FindOne().SetCollation(emailCollation))
}

func (s *Store) FindUserByAuthID(ctx context.Context, authID string) (entity.User, error) {
	if authID == "" {
		return entity.User{}, apperr.NotFound("user not found")
	}
	return s.findUser(ctx, bson.M{"authId": authID})
}

func (s *Store) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := findAll[entity.User](ctx, s, s.users, bson.M{}, "user", options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = normalizeUser(users[i])
	}
	return users, nil
}

func (s *Store) SaveUser(ctx context.Context, u *entity.User) error {
	return s.replace(ctx, s.users, u.ID, normalizeUser(*u), "user", userConflict)
}

// Books

func (s *Store) FindBook(ctx context.Context, id string) (entity.Book, error) {
	return findOne[entity.Book](ctx, s, s.books, bson.M{"_id": id}, "book")
}

func bookFilter(f entity.BookFilter) bson.M {
	filter := bson.M{}
	if f.GenreID != "" {
		filter["genre"] = f.GenreID
	}

	ids := bson.M{}
	if f.IDs != nil {
		ids["$in"] = f.IDs
	}
	if len(f.ExcludeIDs) > 0 {
		ids["$nin"] = f.ExcludeIDs
	}
	if len(ids) > 0 {
		filter["_id"] = ids
	}

	if q := strings.TrimSpace(f.Search); q != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"author": pattern},
		}
	}

	return filter
}

func (s *Store) ListBooks(ctx context.Context, f entity.BookFilter) ([]entity.Book, error) {
	opts := options.Find().SetSort(newestFirst)
	if f.Sort == entity.SortTopRated {
		opts.SetSort(bson.D{
			{Key: "averageRating", Value: -1},
			{Key: "createdAt", Value: 1},
			{Key: "_id", Value: 1},
		})
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	if f.Offset > 0 {
		opts.SetSkip(int64(f.Offset))
	}
	return findAll[entity.Book](ctx, s, s.books, bookFilter(f), "book", opts)
}

func (s *Store) CountBooks(ctx context.Context, f entity.BookFilter) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.books.CountDocuments(ctx, bookFilter(f))
	if err != nil {
		return 0, mapErr(err, "book", "")
	}
	return int(n), nil
}

func (s *Store) SaveBook(ctx context.Context, b *entity.Book) error {
	return s.replace(ctx, s.books, b.ID, b, "book", "book already exists")
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	return s.deleteOne(ctx, s.books, id, "book")
}

// Reviews

func (s *Store) FindReview(ctx context.Context, id string) (entity.Review, error) {
	return findOne[entity.Review](ctx, s, s.reviews, bson.M{"_id": id}, "review")
}

func (s *Store) FindReviews(ctx context.Context, f entity.ReviewFilter) ([]entity.Review, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user"] = f.UserID
	}
	if f.BookID != "" {
		filter["book"] = f.BookID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return findAll[entity.Review](ctx, s, s.reviews, filter, "review", options.Find().SetSort(newestFirst))
}

func (s *Store) SaveReview(ctx context.Context, r *entity.Review) error {
	return s.replace(ctx, s.reviews, r.ID, r, "review", reviewConflict)
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	return s.deleteOne(ctx, s.reviews, id, "review")
}

// Genres

func (s *Store) FindGenre(ctx context.Context, id string) (entity.Genre, error) {
	return findOne[entity.Genre](ctx, s, s.genres, bson.M{"_id": id}, "genre")
}

func (s *Store) FindGenres(ctx context.Context) ([]entity.Genre, error) {
	return findAll[entity.Genre](ctx, s, s.genres, bson.M{}, "genre", options.Find().SetSort(newestFirst))
}

func (s *Store) SaveGenre(ctx context.Context, g *entity.Genre) error {
	return s.replace(ctx, s.genres, g.ID, g, "genre", genreConflict)
}

func (s *Store) DeleteGenre(ctx context.Context, id string) error {
	return s.deleteOne(ctx, s.genres, id, "genre")
}
