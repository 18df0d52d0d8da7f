package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a small
// category tree so the admin UI has something to show. It is a no-op
// when any category already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var rootID string
	err = tx.QueryRow(`
		INSERT INTO categories (name, slug, color)
		VALUES ('Moving Boxes', 'moving-boxes', 'blue')
		RETURNING id
	`).Scan(&rootID)
	if err != nil {
		return fmt.Errorf("seed root category: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO category_images (category_id, position, url)
		VALUES ($1, 0, 'https://placehold.co/600x400/moving-boxes.png')
	`, rootID); err != nil {
		return fmt.Errorf("seed root image: %w", err)
	}

	children := []struct{ name, slug, color string }{
		{"Small Boxes", "small-boxes", "teal"},
		{"Large Boxes", "large-boxes", "orange"},
	}
	for i, c := range children {
		var childID string
		err = tx.QueryRow(`
			INSERT INTO categories (name, slug, color, parent_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, c.name, c.slug, c.color, rootID).Scan(&childID)
		if err != nil {
			return fmt.Errorf("seed child category %s: %w", c.name, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO category_images (category_id, position, url)
			VALUES ($1, 0, $2)
		`, childID, fmt.Sprintf("https://placehold.co/600x400/%s-%d.png", c.slug, i)); err != nil {
			return fmt.Errorf("seed child image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo categories")
	return nil
}
