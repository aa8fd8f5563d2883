package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/pkg/logger"
)

const usage = "usage: migrate up | down | goto <version>"

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	path := cfg.Database.MigrationsPath
	switch os.Args[1] {
	case "up":
		err = db.RunMigrations(path)
	case "down":
		err = db.MigrateDown(path)
	case "goto":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		var version uint64
		version, err = strconv.ParseUint(os.Args[2], 10, 32)
		if err == nil {
			err = db.MigrateToVersion(path, uint(version))
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("Migration failed")
	}
	log.Info().Str("command", os.Args[1]).Msg("Migration finished")
}
