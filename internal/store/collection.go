// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"packmart/internal/models"
)

// CollectionStore persists banner and slider collections: a record per
// collection plus an ordered image list in collection_images.
type CollectionStore struct {
	db *sql.DB
}

// NewCollectionStore returns a new CollectionStore.
func NewCollectionStore(db *sql.DB) *CollectionStore {
	return &CollectionStore{db: db}
}

const collectionColumns = `id, kind, category_id, category_name,
	sub_category_id, sub_category_name, created_at`

// scanCollection scans a collection row from the result set.
func scanCollection(scanner interface{ Scan(...any) error }) (*models.Collection, error) {
	var c models.Collection
	err := scanner.Scan(
		&c.ID, &c.Kind, &c.CategoryID, &c.CategoryName,
		&c.SubCategoryID, &c.SubCategoryName, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all collections of a kind, newest first, with images.
func (s *CollectionStore) List(kind models.CollectionKind) ([]models.Collection, error) {
	rows, err := s.db.Query(`
		SELECT `+collectionColumns+`
		FROM collections
		WHERE kind = $1
		ORDER BY created_at DESC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var items []models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Images, err = s.imagesOf(items[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// FindByID retrieves a single collection with images. Returns nil if
// not found.
func (s *CollectionStore) FindByID(id uuid.UUID) (*models.Collection, error) {
	row := s.db.QueryRow(`SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id)
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find collection by id: %w", err)
	}

	c.Images, err = s.imagesOf(id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new collection and its images, returning the stored row.
func (s *CollectionStore) Create(c *models.Collection) (*models.Collection, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create collection begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO collections (kind, category_id, category_name, sub_category_id, sub_category_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+collectionColumns,
		c.Kind, c.CategoryID, c.CategoryName, c.SubCategoryID, c.SubCategoryName,
	)
	result, err := scanCollection(row)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	if err := insertImages(tx, "collection_images", "collection_id", result.ID, c.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create collection commit: %w", err)
	}

	result.Images = append([]string(nil), c.Images...)
	return result, nil
}

// ReplaceImages swaps the whole image list of a collection (updates are
// full replaces, never merges). Returns the updated collection, or nil
// if the id does not exist.
func (s *CollectionStore) ReplaceImages(id uuid.UUID, images []string) (*models.Collection, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("replace images begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id)
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replace images find: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM collection_images WHERE collection_id = $1`, id); err != nil {
		return nil, fmt.Errorf("clear collection images: %w", err)
	}
	if err := insertImages(tx, "collection_images", "collection_id", id, images); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("replace images commit: %w", err)
	}

	c.Images = append([]string(nil), images...)
	return c, nil
}

// Delete removes a collection and returns it (with images) so the
// caller can clean up the stored assets. Returns nil if not found.
func (s *CollectionStore) Delete(id uuid.UUID) (*models.Collection, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("delete collection begin: %w", err)
	}
	defer tx.Rollback()

	images, err := queryImages(tx, `SELECT url FROM collection_images WHERE collection_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(`DELETE FROM collections WHERE id = $1 RETURNING `+collectionColumns, id)
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete collection commit: %w", err)
	}

	c.Images = images
	return c, nil
}

// imagesOf loads the ordered image URLs of one collection.
func (s *CollectionStore) imagesOf(id uuid.UUID) ([]string, error) {
	return queryImages(s.db, `SELECT url FROM collection_images WHERE collection_id = $1 ORDER BY position`, id)
}
