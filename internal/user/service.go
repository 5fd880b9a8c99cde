// Package user manages reader accounts. Accounts are created on the first
// sign-in with an identity-provider token; there are no local passwords.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"
	"bookworm/internal/logging"

	"github.com/google/uuid"
)

// Identity is the verified identity-provider account signing in.
type Identity struct {
	AuthRef  string
	Email    string
	Name     string
	PhotoURL string
}

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// SignIn returns the account linked to id, creating it on first sign-in. An
// existing account with the same email and no linked identity is linked. It
// reports whether the account was created.
func (s *Service) SignIn(ctx context.Context, id Identity) (entity.User, bool, error) {
	if id.AuthRef == "" {
		return entity.User{}, false, apperr.Unauthorized("identity has no subject")
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return entity.User{}, false, apperr.InvalidArgument("identity has no email")
	}

	u, err := s.repo.FindUserByAuthID(ctx, id.AuthRef)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return entity.User{}, false, err
	}

	u, err = s.repo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		if u.AuthID != "" {
			return entity.User{}, false, apperr.Conflict("email %s is linked to another account", email)
		}
		u.AuthID = id.AuthRef
		u.UpdatedAt = s.now()
		if err := s.repo.SaveUser(ctx, &u); err != nil {
			return entity.User{}, false, fmt.Errorf("link user: %w", err)
		}
		logging.Ctx(ctx).Info().Str("user_id", u.ID).Msg("identity linked to existing user")
		return u, false, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return entity.User{}, false, err
	}

	now := s.now()
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	u = entity.User{
		ID:             s.newID(),
		Name:           name,
		Email:          email,
		PhotoURL:       id.PhotoURL,
		AuthID:         id.AuthRef,
		Role:           entity.RoleUser,
		Shelves:        entity.EmptyShelves(),
		ReadingGoal:    entity.ReadingGoal{Year: now.Year()},
		FavoriteGenres: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.SaveUser(ctx, &u); err != nil {
		return entity.User{}, false, fmt.Errorf("create user: %w", err)
	}
	logging.Ctx(ctx).Info().Str("user_id", u.ID).Msg("user created")
	return u, true, nil
}

// Resolve finds the account linked to an identity-provider subject.
func (s *Service) Resolve(ctx context.Context, authRef string) (entity.User, error) {
	return s.repo.FindUserByAuthID(ctx, authRef)
}

func (s *Service) Get(ctx context.Context, id string) (entity.User, error) {
	return s.repo.FindUserByID(ctx, id)
}

// List returns every account, newest first.
func (s *Service) List(ctx context.Context) ([]entity.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) SetRole(ctx context.Context, id string, role entity.Role) (entity.User, error) {
	if _, err := entity.ParseRole(string(role)); err != nil {
		return entity.User{}, err
	}
	return s.update(ctx, id, func(u *entity.User) {
		u.Role = role
	})
}

// SetGoal sets the yearly reading target for the current year.
func (s *Service) SetGoal(ctx context.Context, id string, target int) (entity.User, error) {
	if target < 0 {
		return entity.User{}, apperr.InvalidArgument("reading goal must not be negative")
	}
	return s.update(ctx, id, func(u *entity.User) {
		u.ReadingGoal = entity.ReadingGoal{Year: s.now().Year(), Target: target}
	})
}

// SetFavoriteGenres replaces the favorite genres. Duplicates are dropped and
// every genre must exist.
func (s *Service) SetFavoriteGenres(ctx context.Context, id string, genreIDs []string) (entity.User, error) {
	seen := make(map[string]bool, len(genreIDs))
	favorites := make([]string, 0, len(genreIDs))
	for _, g := range genreIDs {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		if _, err := s.repo.FindGenre(ctx, g); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return entity.User{}, apperr.InvalidArgument("genre %s does not exist", g)
			}
			return entity.User{}, err
		}
		seen[g] = true
		favorites = append(favorites, g)
	}

	return s.update(ctx, id, func(u *entity.User) {
		u.FavoriteGenres = favorites
	})
}

func (s *Service) update(ctx context.Context, id string, apply func(*entity.User)) (entity.User, error) {
	u, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return entity.User{}, err
	}
	apply(&u)
	u.UpdatedAt = s.now()
	if err := s.repo.SaveUser(ctx, &u); err != nil {
		return entity.User{}, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}
