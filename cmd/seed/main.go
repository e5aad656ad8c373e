// Command seed populates the development database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"arbor/internal/config"
	"arbor/internal/database"
	"arbor/internal/seed"
)

func main() {
	users := flag.Int("users", seed.DefaultOptions.Users, "number of users to create")
	groups := flag.Int("groups", seed.DefaultOptions.Groups, "number of groups to create")
	posts := flag.Int("posts", seed.DefaultOptions.Posts, "number of posts to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	opts := seed.Options{Users: *users, Groups: *groups, Posts: *posts}
	if err := seed.Run(context.Background(), db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
