package entity

import "time"

// Book is a catalog entry. AverageRating and TotalRatings are derived from the
// approved reviews of the book and are only written by review moderation.
type Book struct {
	ID            string    `json:"id" bson:"_id"`
	Title         string    `json:"title" bson:"title"`
	Author        string    `json:"author" bson:"author"`
	Description   string    `json:"description" bson:"description"`
	CoverImage    string    `json:"cover_image" bson:"coverImage"`
	GenreID       string    `json:"genre_id" bson:"genre"`
	AverageRating float64   `json:"average_rating" bson:"averageRating"`
	TotalRatings  int       `json:"total_ratings" bson:"totalRatings"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
}

type BookSort int

const (
	// SortNewest orders by creation time, newest first.
	SortNewest BookSort = iota
	// SortTopRated orders by average rating descending, then creation time ascending.
	SortTopRated
)

// BookFilter selects books for ListBooks. Zero values mean "no constraint";
// a zero Limit returns every match. A non-nil empty IDs matches nothing.
// Search is a case-insensitive substring match on title or author.
type BookFilter struct {
	GenreID    string
	Search     string
	IDs        []string
	ExcludeIDs []string
	Sort       BookSort
	Limit      int
	Offset     int
}
