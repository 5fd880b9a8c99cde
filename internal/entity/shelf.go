package entity

import (
	"slices"

	"bookworm/internal/apperr"
)

// Shelf names one of the three shelves of a user, or none.
type Shelf string

const (
	ShelfNone             Shelf = "none"
	ShelfWantToRead       Shelf = "wantToRead"
	ShelfCurrentlyReading Shelf = "currentlyReading"
	ShelfRead             Shelf = "read"
)

// ParseShelf validates a shelf name coming from a request. The empty string is
// accepted as none.
func ParseShelf(s string) (Shelf, error) {
	switch sh := Shelf(s); sh {
	case ShelfWantToRead, ShelfCurrentlyReading, ShelfRead, ShelfNone:
		return sh, nil
	case "":
		return ShelfNone, nil
	default:
		return "", apperr.InvalidArgument("unknown shelf %q", s)
	}
}

const (
	MinProgress = 0
	MaxProgress = 100
)

// ClampProgress bounds a progress percentage to [0, 100].
func ClampProgress(p int) int {
	return max(MinProgress, min(MaxProgress, p))
}

// ReadingEntry is a book on the currentlyReading shelf.
type ReadingEntry struct {
	BookID   string `json:"book_id" bson:"book"`
	Progress int    `json:"progress" bson:"progress"`
}

// Shelves holds the three shelves of a user. A book ID appears on at most one
// of them; Move keeps that invariant.
type Shelves struct {
	WantToRead       []string       `json:"want_to_read" bson:"wantToRead"`
	CurrentlyReading []ReadingEntry `json:"currently_reading" bson:"currentlyReading"`
	Read             []string       `json:"read" bson:"read"`
}

// EmptyShelves returns shelves with non-nil empty slices.
func EmptyShelves() Shelves {
	return Shelves{
		WantToRead:       []string{},
		CurrentlyReading: []ReadingEntry{},
		Read:             []string{},
	}
}

// Locate returns the shelf holding bookID, or ShelfNone.
func (s *Shelves) Locate(bookID string) Shelf {
	switch {
	case slices.Contains(s.WantToRead, bookID):
		return ShelfWantToRead
	case slices.Contains(s.Read, bookID):
		return ShelfRead
	case slices.ContainsFunc(s.CurrentlyReading, func(e ReadingEntry) bool { return e.BookID == bookID }):
		return ShelfCurrentlyReading
	default:
		return ShelfNone
	}
}

// Remove takes bookID off every shelf.
func (s *Shelves) Remove(bookID string) {
	s.WantToRead = slices.DeleteFunc(s.WantToRead, func(id string) bool { return id == bookID })
	s.Read = slices.DeleteFunc(s.Read, func(id string) bool { return id == bookID })
	s.CurrentlyReading = slices.DeleteFunc(s.CurrentlyReading, func(e ReadingEntry) bool { return e.BookID == bookID })
}

// Move removes bookID from all shelves and then appends it to target.
// ShelfNone only removes. A book moved to currentlyReading starts at progress 0.
func (s *Shelves) Move(bookID string, target Shelf) {
	s.Remove(bookID)
	switch target {
	case ShelfWantToRead:
		s.WantToRead = append(s.WantToRead, bookID)
	case ShelfRead:
		s.Read = append(s.Read, bookID)
	case ShelfCurrentlyReading:
		s.CurrentlyReading = append(s.CurrentlyReading, ReadingEntry{BookID: bookID, Progress: MinProgress})
	}
}

// SetProgress stores the clamped progress on the currentlyReading entry of
// bookID. It reports false when the book is not being read.
func (s *Shelves) SetProgress(bookID string, progress int) (int, bool) {
	i := slices.IndexFunc(s.CurrentlyReading, func(e ReadingEntry) bool { return e.BookID == bookID })
	if i < 0 {
		return 0, false
	}
	s.CurrentlyReading[i].Progress = ClampProgress(progress)
	return s.CurrentlyReading[i].Progress, true
}

// Normalize replaces nil shelves with empty ones so they encode as [].
func (s *Shelves) Normalize() {
	if s.WantToRead == nil {
		s.WantToRead = []string{}
	}
	if s.CurrentlyReading == nil {
		s.CurrentlyReading = []ReadingEntry{}
	}
	if s.Read == nil {
		s.Read = []string{}
	}
}
