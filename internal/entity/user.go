package entity

import (
	"fmt"
	"time"

	"bookworm/internal/apperr"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a role coming from a request.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", apperr.InvalidArgument("unknown role %q", s)
	}
}

// ReadingGoal is the yearly number of books a user wants to finish.
type ReadingGoal struct {
	Year   int `json:"year" bson:"year"`
	Target int `json:"target" bson:"target"`
}

type User struct {
	ID             string      `json:"id" bson:"_id"`
	Name           string      `json:"name" bson:"name"`
	Email          string      `json:"email" bson:"email"`
	PhotoURL       string      `json:"photo_url,omitempty" bson:"photoUrl,omitempty"`
	AuthID         string      `json:"-" bson:"authId"`
	Role           Role        `json:"role" bson:"role"`
	Shelves        Shelves     `json:"shelves" bson:"shelves"`
	ReadingGoal    ReadingGoal `json:"reading_goal" bson:"readingGoal"`
	FavoriteGenres []string    `json:"favorite_genres" bson:"favoriteGenres"`
	CreatedAt      time.Time   `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) String() string {
	return fmt.Sprintf("user(%s %s)", u.ID, u.Email)
}
