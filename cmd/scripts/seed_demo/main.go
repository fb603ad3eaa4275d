// Seeds a demo user profile and a starter conversation so a fresh
// environment has something to chat against.
//
//	go run ./cmd/scripts/seed_demo -user demo-user
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/careerwise-ai/careerwise/internal/db"
	"github.com/careerwise-ai/careerwise/internal/models"
	"github.com/careerwise-ai/careerwise/internal/utils"
)

func main() {
	userID := flag.String("user", "demo-user", "user id to seed")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	postgres, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer postgres.Close()

	if err := postgres.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	profile := &models.UserProfile{
		UserID:            *userID,
		FullName:          "Demo User",
		Email:             "demo@example.com",
		UserType:          models.UserTypeStudent,
		ExperienceLevel:   models.ExperienceEntry,
		IndustryInterests: []string{"software", "data"},
		CareerGoals:       []string{"land a backend internship"},
		Skills:            []string{"go", "sql"},
		Location:          "Remote",
		Bio:               "Computer science student exploring backend roles.",
	}

	created, err := postgres.CreateProfile(ctx, profile)
	switch {
	case errors.Is(err, db.ErrProfileExists):
		log.Printf("profile for %s already exists, skipping", *userID)
	case err != nil:
		log.Fatalf("create profile: %v", err)
	default:
		log.Printf("created profile %s for %s", created.ID, *userID)
	}

	conv, err := postgres.CreateConversation(ctx, *userID, "Getting started", string(models.UserTypeStudent))
	if err != nil {
		log.Fatalf("create conversation: %v", err)
	}
	log.Printf("created conversation %s", conv.ID)

	welcome := "Hi! What career questions can I help you with today?"
	if _, err := postgres.CreateMessage(ctx, conv.ID, welcome, models.MessageTypeAssistant, nil); err != nil {
		log.Fatalf("seed welcome message: %v", err)
	}
	log.Printf("seeded welcome message")
}
