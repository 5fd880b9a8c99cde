// Package mongostore is the MongoDB store driver. Every document type has its
// own collection; uniqueness is enforced by the indexes created in
// EnsureIndexes.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookworm/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// emailCollation makes email lookups and the unique email index case-insensitive.
var emailCollation = &options.Collation{Locale: "en", Strength: 2}

type Store struct {
	client  *mongo.Client
	users   *mongo.Collection
	books   *mongo.Collection
	reviews *mongo.Collection
	genres  *mongo.Collection
	timeout time.Duration
}

// Open connects to uri, pings the primary and makes sure the indexes exist.
func Open(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s := New(client, database, timeout)
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func New(client *mongo.Client, database string, timeout time.Duration) *Store {
	db := client.Database(database)
	return &Store{
		client:  client,
		users:   db.Collection("users"),
		books:   db.Collection("books"),
		reviews: db.Collection("reviews"),
		genres:  db.Collection("genres"),
		timeout: timeout,
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.users: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetCollation(emailCollation),
			},
			{
				Keys: bson.D{{Key: "authId", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"authId": bson.M{"$gt": ""}}),
			},
		},
		s.genres: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.reviews: {
			{
				Keys:    bson.D{{Key: "user", Value: 1}, {Key: "book", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		s.books: {
			{Keys: bson.D{{Key: "genre", Value: 1}}},
			{Keys: bson.D{{Key: "averageRating", Value: -1}, {Key: "createdAt", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mapErr(err error, kind, conflict string) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.NotFound("%s not found", kind)
	case mongo.IsDuplicateKeyError(err):
		return apperr.Conflict("%s", conflict).WithCause(err)
	default:
		return fmt.Errorf("%s: %w", kind, err)
	}
}

func findOne[T any](ctx context.Context, s *Store, coll *mongo.Collection, filter any, kind string, opts ...*options.FindOneOptions) (T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var v T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&v); err != nil {
		return v, mapErr(err, kind, "")
	}
	return v, nil
}

func findAll[T any](ctx context.Context, s *Store, coll *mongo.Collection, filter any, kind string, opts ...*options.FindOptions) ([]T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, mapErr(err, kind, "")
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mapErr(err, kind, "")
	}
	return out, nil
}

func (s *Store) replace(ctx context.Context, coll *mongo.Collection, id string, doc any, kind, conflict string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return mapErr(err, kind, conflict)
	}
	return nil
}

func (s *Store) deleteOne(ctx context.Context, coll *mongo.Collection, id, kind string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err, kind, "")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("%s not found", kind)
	}
	return nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
