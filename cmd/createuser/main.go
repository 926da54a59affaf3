package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/wsanec-lang/sencoten-backend/internal/db"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/envutil"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/repos"
	"github.com/wsanec-lang/sencoten-backend/internal/services"
	"github.com/wsanec-lang/sencoten-backend/internal/types"
)

// Provisions a teacher or admin account from the command line. Uses the same
// database configuration as the server.
func main() {
	username := flag.String("username", "", "login name")
	password := flag.String("password", "", "login password")
	displayName := flag.String("name", "", "display name shown on entry attribution")
	role := flag.String("role", types.RoleTeacher, "teacher or admin")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createuser -username NAME -password PW [-name DISPLAY] [-role teacher|admin]")
		os.Exit(2)
	}

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	database, err := db.New(log, db.Config{
		Driver:           envutil.String("DB_DRIVER", db.DriverSQLite),
		PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
		PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
		PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
		PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
		PostgresName:     envutil.String("POSTGRES_NAME", "sencoten"),
		SQLitePath:       envutil.String("SQLITE_PATH", "data/dictionary.db"),
	})
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		log.Fatal("Database automigrate failed", "error", err)
	}
	theDB := database.DB()

	authService := services.NewAuthService(theDB, log,
		repos.NewUserRepo(theDB, log),
		repos.NewUserTokenRepo(theDB, log),
		"unused", 0, 0)

	name := *displayName
	if name == "" {
		name = *username
	}
	user, err := authService.CreateUser(context.Background(), *username, *password, name, *role)
	if err != nil {
		log.Fatal("Create user failed", "error", err)
	}
	log.Info("User created", "userID", user.ID, "username", user.Username, "role", user.Role)
}
