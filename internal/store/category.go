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

// CategoryStore manages category rows and their ordered image lists.
// It is pure persistence: validation and tree invariants are enforced
// by the catalog service on top.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, color, description, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Color, &c.Description,
		&c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories with their images, ordered by creation time.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachImages(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Tree returns categories as a nested tree structure.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FlatTree returns categories as a flat list ordered for display,
// with Depth set for indentation. Useful for <select> dropdowns.
func (s *CategoryStore) FlatTree() ([]models.Category, error) {
	tree, err := s.Tree()
	if err != nil {
		return nil, err
	}
	var result []models.Category
	flattenTree(tree, &result)
	return result, nil
}

// flattenTree walks a category tree depth-first, appending to result.
func flattenTree(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		*result = append(*result, c)
		if len(c.Children) > 0 {
			flattenTree(c.Children, result)
		}
	}
}

// FindByID retrieves a category by ID with its images. Returns nil if
// not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}

	c.Images, err = s.imagesOf(id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindChildren returns all categories whose parent is the given id.
func (s *CategoryStore) FindChildren(id uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+` FROM categories
		WHERE parent_id = $1
		ORDER BY created_at, name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachImages(items); err != nil {
		return nil, err
	}
	return items, nil
}

// HasChildren reports whether any category references id as its parent.
func (s *CategoryStore) HasChildren(id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE parent_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has children: %w", err)
	}
	return exists, nil
}

// Subtree returns the category with the given id and every descendant,
// parents before children, each with its images. Empty if id is absent.
func (s *CategoryStore) Subtree(id uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		WITH RECURSIVE subtree AS (
			SELECT `+categoryColumns+`, 0 AS depth FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id, c.name, c.slug, c.color, c.description, c.parent_id,
			       c.created_at, c.updated_at, st.depth + 1
			FROM categories c
			JOIN subtree st ON c.parent_id = st.id
		)
		SELECT `+categoryColumns+` FROM subtree ORDER BY depth
	`, id)
	if err != nil {
		return nil, fmt.Errorf("subtree: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subtree category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachImages(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a new category and its images, returning the stored row.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create category begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO categories (name, slug, color, description, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Color, c.Description, c.ParentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := insertImages(tx, "category_images", "category_id", result.ID, c.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create category commit: %w", err)
	}

	result.Images = append([]string(nil), c.Images...)
	return result, nil
}

// Update replaces every field of an existing category, including the
// whole image list. Returns nil if the id does not exist.
func (s *CategoryStore) Update(c *models.Category) (*models.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update category begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		UPDATE categories SET
			name = $1, slug = $2, color = $3, description = $4,
			parent_id = $5, updated_at = now()
		WHERE id = $6
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Color, c.Description, c.ParentID, c.ID,
	)
	result, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM category_images WHERE category_id = $1`, c.ID); err != nil {
		return nil, fmt.Errorf("clear category images: %w", err)
	}
	if err := insertImages(tx, "category_images", "category_id", c.ID, c.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update category commit: %w", err)
	}

	result.Images = append([]string(nil), c.Images...)
	return result, nil
}

// Delete removes the given categories in one transaction. IDs must be
// ordered children-first: the parent_id foreign key restricts deleting
// a row that still has children.
func (s *CategoryStore) Delete(ids []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete categories begin: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete categories commit: %w", err)
	}
	return nil
}

// imagesOf loads the ordered image URLs of one category.
func (s *CategoryStore) imagesOf(id uuid.UUID) ([]string, error) {
	return queryImages(s.db, `SELECT url FROM category_images WHERE category_id = $1 ORDER BY position`, id)
}

// attachImages fills Images for every category in items.
func (s *CategoryStore) attachImages(items []models.Category) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := s.db.Query(`SELECT category_id, url FROM category_images ORDER BY category_id, position`)
	if err != nil {
		return fmt.Errorf("load category images: %w", err)
	}
	defer rows.Close()

	byCategory := make(map[uuid.UUID][]string)
	for rows.Next() {
		var id uuid.UUID
		var url string
		if err := rows.Scan(&id, &url); err != nil {
			return fmt.Errorf("scan category image: %w", err)
		}
		byCategory[id] = append(byCategory[id], url)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		items[i].Images = byCategory[items[i].ID]
	}
	return nil
}
