package main

import (
	"context"
	"flag"
	"log"

	"infoguru-be/internal/config"
	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/logger"
	"infoguru-be/internal/pkg/serverutils"
	"infoguru-be/internal/repository/unitofwork"
	"infoguru-be/internal/service"
	"infoguru-be/pkg/database"
)

// Creates a demo account so a fresh database can be logged into right away.
func main() {
	email := flag.String("email", "demo@rgukt.ac.in", "email of the seeded user")
	password := flag.String("password", "Demo#Pass1", "password of the seeded user")
	username := flag.String("username", "demo", "display name of the seeded user")
	flag.Parse()

	if !serverutils.IsValidEmail(*email) {
		log.Fatalf("Error: %q is not a valid email", *email)
	}
	if problem := serverutils.PasswordProblem(*password); problem != "" {
		log.Fatalf("Error: %s", problem)
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsProduction())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	users := service.NewUserDirectory(unitofwork.NewRepositoryFactory(db), logger.NewNopLogger())
	user, err := users.CreateUser(context.Background(), *email, *password, *username, "")
	if apperror.Is(err, apperror.KindConflict) {
		log.Printf("User '%s' already exists, skipping...", *email)
		return
	}
	if err != nil {
		log.Fatalf("Error: Failed to seed user: %v", err)
	}

	log.Printf("[INFO] Seeded user %s (%s)", user.Email, user.Id)
}
