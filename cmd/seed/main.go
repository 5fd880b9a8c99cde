package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"bookworm/internal/book"
	"bookworm/internal/config"
	"bookworm/internal/entity"
	"bookworm/internal/genre"
	"bookworm/internal/logging"
	"bookworm/internal/platform/crypto"
	"bookworm/internal/store"
	"bookworm/internal/user"
)

type options struct {
	Books      int
	AdminEmail string
	AdminRef   string
}

var genreNames = []string{
	"Fiction", "Science Fiction", "Fantasy", "Mystery", "Romance",
	"History", "Biography", "Science", "Philosophy", "Poetry",
}

var words = []string{
	"Shadow", "Light", "River", "Mountain", "Ocean", "Forest", "Star", "Moon",
	"Sun", "Wind", "Fire", "Ice", "Stone", "Crystal", "Dream", "Memory",
}

func main() {
	var opts options
	flag.IntVar(&opts.Books, "books", 200, "Number of books to create when the catalog is empty")
	flag.StringVar(&opts.AdminEmail, "admin-email", "admin@bookworm.local", "Email of the seeded admin")
	flag.StringVar(&opts.AdminRef, "admin-ref", "dev|admin", "Auth reference of the seeded admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	admin, err := seed(ctx, st, opts)
	if err != nil {
		logging.Fatal().Err(err).Msg("seed failed")
	}

	token, err := crypto.GenerateToken(cfg.Auth.JWTSecret, opts.AdminRef, admin.Email, admin.Name, 24*time.Hour)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to sign admin token")
	}
	fmt.Println(token)
}

// seed creates the genre list, a generated catalog when no book exists yet,
// and an admin user. Running it again only tops up missing genres.
func seed(ctx context.Context, st store.Store, opts options) (entity.User, error) {
	genres := genre.NewService(st)
	existing, err := genres.List(ctx)
	if err != nil {
		return entity.User{}, err
	}
	byName := make(map[string]string, len(existing))
	for _, g := range existing {
		byName[g.Name] = g.ID
	}

	genreIDs := make([]string, 0, len(genreNames))
	for _, name := range genreNames {
		if id, ok := byName[name]; ok {
			genreIDs = append(genreIDs, id)
			continue
		}
		g, err := genres.Create(ctx, name)
		if err != nil {
			return entity.User{}, fmt.Errorf("create genre %s: %w", name, err)
		}
		genreIDs = append(genreIDs, g.ID)
	}
	logging.Info().Int("genres", len(genreIDs)).Msg("genres ready")

	total, err := st.CountBooks(ctx, entity.BookFilter{})
	if err != nil {
		return entity.User{}, err
	}
	if total == 0 {
		books := book.NewService(st)
		for i := range opts.Books {
			in := book.Input{
				Title:       fmt.Sprintf("The %s of %s", pick(i), pick(i*7+3)),
				Author:      fmt.Sprintf("Author %d", i%37+1),
				Description: fmt.Sprintf("A story about %s.", pick(i*3+1)),
				GenreID:     genreIDs[i%len(genreIDs)],
			}
			if _, err := books.Create(ctx, in); err != nil {
				return entity.User{}, fmt.Errorf("create book %d: %w", i+1, err)
			}
		}
		logging.Info().Int("books", opts.Books).Msg("catalog generated")
	} else {
		logging.Info().Int("books", total).Msg("catalog not empty, skipping books")
	}

	users := user.NewService(st)
	u, _, err := users.SignIn(ctx, user.Identity{AuthRef: opts.AdminRef, Email: opts.AdminEmail, Name: "Admin"})
	if err != nil {
		return entity.User{}, fmt.Errorf("sign in admin: %w", err)
	}
	return users.SetRole(ctx, u.ID, entity.RoleAdmin)
}

func pick(i int) string {
	return words[i%len(words)]
}
