package entity

import (
	"time"

	"bookworm/internal/apperr"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        string       `json:"id" bson:"_id"`
	UserID    string       `json:"user_id" bson:"user"`
	BookID    string       `json:"book_id" bson:"book"`
	Rating    int          `json:"rating" bson:"rating"`
	Comment   string       `json:"comment" bson:"comment"`
	Status    ReviewStatus `json:"status" bson:"status"`
	CreatedAt time.Time    `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updatedAt"`
}

// ReviewFilter selects reviews for FindReviews. Results are always newest first.
type ReviewFilter struct {
	UserID string
	BookID string
	Status ReviewStatus
}

type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
)

func ParseModerationAction(s string) (ModerationAction, error) {
	switch a := ModerationAction(s); a {
	case ActionApprove, ActionReject:
		return a, nil
	default:
		return "", apperr.InvalidArgument("unknown moderation action %q", s)
	}
}
