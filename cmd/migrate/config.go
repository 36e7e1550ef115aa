package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// migrationsDir resolves the goose migrations directory. A trailing slash in
// the override is stripped so goose path joins stay clean.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return "db/migrations"
}
