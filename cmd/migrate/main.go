package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tranghoa.org/internal/migrate"
	"tranghoa.org/internal/store/pg"
)

func main() {
	_ = godotenv.Load()

	var (
		dir      = flag.String("dir", "migrations", "directory holding .up.sql/.down.sql files")
		seedsDir = flag.String("seeds", "migrations/seeds", "directory holding seed .sql files")
	)
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	dsn := os.Getenv("TRANGHOA_PG_DSN")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "TRANGHOA_PG_DSN is required")
		os.Exit(2)
	}

	store, err := pg.Open(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open postgres: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	mgr := migrate.NewManager(store.DB(), *dir, *seedsDir)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch cmd {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "seed":
		err = mgr.Seed(ctx)
	case "status":
		var applied []string
		applied, err = mgr.Status(ctx)
		if err == nil {
			if len(applied) == 0 {
				fmt.Println("no migrations applied")
			}
			for _, name := range applied {
				fmt.Println(name)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want up, down, seed or status)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}
