// seed-codes loads municipal code sections from a YAML fixture file and
// inserts any that are missing. Existing chapter/section pairs are skipped,
// so the script is safe to run repeatedly against the same database.
//
// Usage: go run ./scripts/seed-codes [-dry-run] codes.yaml
//
// Database connection: reads DATABASE_URL, falling back to the standard
// PG* environment variables the server uses.
//
// Fixture format:
//
//	codes:
//	  - chapter: "7"
//	    section: "305.3"
//	    name: Overgrown vegetation
//	    description: Grass or weeds in excess of ten inches.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"
)

type codeFixture struct {
	Codes []struct {
		Chapter     string `yaml:"chapter"`
		Section     string `yaml:"section"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"codes"`
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Show what would be inserted without inserting")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-dry-run] <codes.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(args[0], *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(fixturePath string, dryRun bool) error {
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}

	var fixture codeFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("failed to parse fixture: %w", err)
	}
	if len(fixture.Codes) == 0 {
		return fmt.Errorf("fixture contains no codes")
	}

	for i, c := range fixture.Codes {
		if c.Chapter == "" || c.Section == "" || c.Name == "" {
			return fmt.Errorf("code %d: chapter, section, and name are required", i+1)
		}
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	inserted, skipped := 0, 0
	for _, c := range fixture.Codes {
		var exists bool
		err := conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM codes WHERE chapter = $1 AND section = $2)`,
			c.Chapter, c.Section).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check code %s/%s: %w", c.Chapter, c.Section, err)
		}
		if exists {
			skipped++
			continue
		}

		if dryRun {
			fmt.Printf("Would insert: chapter %s section %s (%s)\n", c.Chapter, c.Section, c.Name)
			inserted++
			continue
		}

		var description *string
		if c.Description != "" {
			description = &c.Description
		}
		_, err = conn.Exec(ctx,
			`INSERT INTO codes (chapter, section, name, description) VALUES ($1, $2, $3, $4)`,
			c.Chapter, c.Section, c.Name, description)
		if err != nil {
			return fmt.Errorf("failed to insert code %s/%s: %w", c.Chapter, c.Section, err)
		}
		inserted++
	}

	verb := "Inserted"
	if dryRun {
		verb = "Would insert"
	}
	fmt.Printf("%s %d codes, skipped %d existing\n", verb, inserted, skipped)
	return nil
}

func connString() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := envOr("PGHOST", "localhost")
	port := envOr("PGPORT", "5432")
	user := envOr("PGUSER", "civicode")
	password := os.Getenv("PGPASSWORD")
	name := envOr("PGDATABASE", "civicode_engine")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
