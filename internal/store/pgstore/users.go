package pgstore

import (
	"context"

	"bookworm/internal/entity"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, photo_url, auth_id, role, shelves,
	goal_year, goal_target, favorite_genres, created_at, updated_at`

const userConflict = "a user with this email or auth reference already exists"

func scanUser(row pgx.Row) (entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.AuthID, &u.Role, &u.Shelves,
		&u.ReadingGoal.Year, &u.ReadingGoal.Target, &u.FavoriteGenres, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return entity.User{}, err
	}
	u.Shelves.Normalize()
	if u.FavoriteGenres == nil {
		u.FavoriteGenres = []string{}
	}
	return u, nil
}

func (s *Store) findUser(ctx context.Context, where string, arg any) (entity.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", arg))
	if err != nil {
		return entity.User{}, mapErr(err, "user", userConflict)
	}
	return u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (entity.User, error) {
	return s.findUser(ctx, "id = $1", id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (entity.User, error) {
	return s.findUser(ctx, "lower(email) = lower($1)", email)
}

func (s *Store) FindUserByAuthID(ctx context.Context, authID string) (entity.User, error) {
	return s.findUser(ctx, "auth_id = $1 AND auth_id <> ''", authID)
}

func (s *Store) ListUsers(ctx context.Context) ([]entity.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id ASC")
	if err != nil {
		return nil, mapErr(err, "user", userConflict)
	}
	defer rows.Close()

	users := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr(err, "user", userConflict)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) SaveUser(ctx context.Context, u *entity.User) error {
	const query = `
	INSERT INTO users (` + userColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		email = EXCLUDED.email,
		photo_url = EXCLUDED.photo_url,
		auth_id = EXCLUDED.auth_id,
		role = EXCLUDED.role,
		shelves = EXCLUDED.shelves,
		goal_year = EXCLUDED.goal_year,
		goal_target = EXCLUDED.goal_target,
		favorite_genres = EXCLUDED.favorite_genres,
		updated_at = EXCLUDED.updated_at
	`
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	shelves := u.Shelves
	shelves.Normalize()
	favorites := u.FavoriteGenres
	if favorites == nil {
		favorites = []string{}
	}

	_, err := s.db.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.PhotoURL, u.AuthID, u.Role, shelves,
		u.ReadingGoal.Year, u.ReadingGoal.Target, favorites, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "user", userConflict)
	}
	return nil
}
