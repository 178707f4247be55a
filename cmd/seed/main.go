package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/devconnector/config"
	app "github.com/oksasatya/devconnector/internal/application"
	pginfra "github.com/oksasatya/devconnector/internal/infrastructure/postgres"
	"github.com/oksasatya/devconnector/pkg/apperror"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	users := app.NewUserService(
		pginfra.NewUserRepository(pool, cfg.StoreTimeout),
		pginfra.NewAccountStore(pool, cfg.StoreTimeout),
		helpers.NewPasswordHasher(cfg.BcryptCost),
		helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL),
		logger,
	)
	profiles := app.NewProfileService(pginfra.NewProfileRepository(pool, cfg.StoreTimeout), logger)
	posts := app.NewPostService(pginfra.NewPostRepository(pool, cfg.StoreTimeout), logger)

	email := "demo@devconnector.dev"
	password := "password123"
	name := "Demo User"

	u, err := users.Register(ctx, app.RegisterInput{Name: name, Email: email, Password: password, PasswordConfirm: password})
	switch {
	case err == nil:
		fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, email, name, password)
	case apperror.KindOf(err) == apperror.KindConflict:
		fmt.Printf("user %s already exists, skipping\n", email)
		return
	default:
		log.Fatalf("failed to seed user: %v", err)
	}

	p, err := profiles.Upsert(ctx, u.ID, app.ProfileInput{
		Handle:         "demo",
		Status:         "Developer",
		Skills:         "Go, PostgreSQL, Docker",
		Bio:            "Seeded demo account",
		Location:       "Remote",
		GithubUsername: "demo",
	})
	if err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}
	if _, err := profiles.AddExperience(ctx, u.ID, app.ExperienceInput{
		Title: "Backend Engineer", Company: "Acme", From: "2021-03-01", Current: true,
	}); err != nil {
		log.Fatalf("failed to seed experience: %v", err)
	}
	fmt.Printf("seeded profile: handle=%s\n", p.Handle)

	post, err := posts.Create(ctx, helpers.Identity{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}, app.PostInput{
		Text: "Hello DevConnector! This is the first post.",
	})
	if err != nil {
		log.Fatalf("failed to seed post: %v", err)
	}
	fmt.Printf("seeded post: id=%s\n", post.ID)
}
