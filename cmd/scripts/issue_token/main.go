// Issues a signed bearer token for local testing against the API.
//
//	go run ./cmd/scripts/issue_token -user demo-user -email demo@example.com
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/careerwise-ai/careerwise/internal/auth"
	"github.com/careerwise-ai/careerwise/internal/utils"
)

func main() {
	userID := flag.String("user", "demo-user", "user id to embed as the token subject")
	email := flag.String("email", "", "email claim, optional")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	authService, err := auth.NewService(cfg.JWTSecret, *ttl)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	token, err := authService.IssueToken(*userID, *email)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println(token)
}
