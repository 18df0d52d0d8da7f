// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the business rules of the category tree and
// the banner/slider collections: input validation, slug derivation, the
// cascading delete guard, and best-effort cleanup of stored assets when
// records go away. Persistence and the asset store are injected so tests
// can substitute fakes.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"packmart/internal/apperr"
	"packmart/internal/assets"
	"packmart/internal/models"
	"packmart/internal/slug"
)

// CategoryRepo is the persistence surface the category service needs.
// *store.CategoryStore satisfies it.
type CategoryRepo interface {
	List() ([]models.Category, error)
	Tree() ([]models.Category, error)
	FindByID(id uuid.UUID) (*models.Category, error)
	FindChildren(id uuid.UUID) ([]models.Category, error)
	HasChildren(id uuid.UUID) (bool, error)
	Subtree(id uuid.UUID) ([]models.Category, error)
	Create(c *models.Category) (*models.Category, error)
	Update(c *models.Category) (*models.Category, error)
	Delete(ids []uuid.UUID) error
}

// Categories applies the catalog rules on top of a CategoryRepo.
type Categories struct {
	repo    CategoryRepo
	deleter assets.Deleter // nil when no asset store is configured
}

// NewCategories returns a new category service.
func NewCategories(repo CategoryRepo, deleter assets.Deleter) *Categories {
	return &Categories{repo: repo, deleter: deleter}
}

// CategoryInput carries the caller-supplied fields of a create or
// update. The slug is always derived from Name, never supplied.
type CategoryInput struct {
	Name        string
	Color       string
	Description string
	Images      []string
	ParentID    *uuid.UUID
}

// validate rejects blank name or color and an empty image list before
// anything touches the database.
func (in *CategoryInput) validate() error {
	if in.Name == "" {
		return apperr.New(apperr.Validation, "name is required")
	}
	if in.Color == "" {
		return apperr.New(apperr.Validation, "color is required")
	}
	if len(in.Images) == 0 {
		return apperr.New(apperr.Validation, "at least one image is required")
	}
	return nil
}

// Create validates the input, derives the slug and persists a new
// category. A parent reference must point at an existing category.
func (s *Categories) Create(in CategoryInput) (*models.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkParent(in.ParentID, nil); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(&models.Category{
		Name:        in.Name,
		Slug:        slug.Generate(in.Name),
		Color:       in.Color,
		Description: in.Description,
		Images:      in.Images,
		ParentID:    in.ParentID,
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// Update replaces every field of an existing category, including the
// whole image list, and re-derives the slug from the new name.
func (s *Categories) Update(id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if existing == nil {
		return nil, apperr.New(apperr.NotFound, "category not found")
	}

	if err := s.checkParent(in.ParentID, &id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(&models.Category{
		ID:          id,
		Name:        in.Name,
		Slug:        slug.Generate(in.Name),
		Color:       in.Color,
		Description: in.Description,
		Images:      in.Images,
		ParentID:    in.ParentID,
	})
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if updated == nil {
		return nil, apperr.New(apperr.NotFound, "category not found")
	}
	return updated, nil
}

// checkParent verifies a parent reference: it must exist, and when self
// is set (update) the parent may not be the category itself or any of
// its descendants, which would detach the subtree into a cycle.
func (s *Categories) checkParent(parentID, self *uuid.UUID) error {
	if parentID == nil {
		return nil
	}

	parent, err := s.repo.FindByID(*parentID)
	if err != nil {
		return fmt.Errorf("check parent: %w", err)
	}
	if parent == nil {
		return apperr.New(apperr.NotFound, "parent category not found")
	}

	if self != nil {
		if *parentID == *self {
			return apperr.New(apperr.Validation, "a category cannot be its own parent")
		}
		sub, err := s.repo.Subtree(*self)
		if err != nil {
			return fmt.Errorf("check parent: %w", err)
		}
		for _, node := range sub {
			if node.ID == *parentID {
				return apperr.New(apperr.Validation, "a category cannot be moved under its own descendant")
			}
		}
	}
	return nil
}

// Get returns one category with its images.
func (s *Categories) Get(id uuid.UUID) (*models.Category, error) {
	c, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "category not found")
	}
	return c, nil
}

// List returns all categories as a flat sequence; callers derive the
// tree by grouping on ParentID, or ask for Tree directly.
func (s *Categories) List() ([]models.Category, error) {
	return s.repo.List()
}

// Tree returns the categories as a nested tree.
func (s *Categories) Tree() ([]models.Category, error) {
	return s.repo.Tree()
}

// FindChildren returns the direct children of a category.
func (s *Categories) FindChildren(id uuid.UUID) ([]models.Category, error) {
	c, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "category not found")
	}
	return s.repo.FindChildren(id)
}

// DeleteSummary reports what a delete actually did. FailedImages lists
// asset URLs whose remote delete failed; the records are gone either way.
type DeleteSummary struct {
	Deleted      int      `json:"deleted"`
	FailedImages []string `json:"failed_images,omitempty"`
}

// Delete removes a category. Without cascade the delete is refused when
// children exist: silently dropping subcategory attachments is
// destructive and not reversible from the back office. With cascade the
// whole subtree goes. Image deletes are best-effort fan-out; their
// outcome never blocks record deletion, because a gone record with a
// stray image is less harmful than a record that can never be removed.
func (s *Categories) Delete(ctx context.Context, id uuid.UUID, cascade bool) (*DeleteSummary, error) {
	sub, err := s.repo.Subtree(id)
	if err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	if len(sub) == 0 {
		return nil, apperr.New(apperr.NotFound, "category not found")
	}
	if len(sub) > 1 && !cascade {
		return nil, apperr.New(apperr.Blocked, "category has subcategories; delete them first or request a cascade")
	}

	var urls []string
	for _, node := range sub {
		urls = append(urls, node.Images...)
	}

	var failed []string
	if s.deleter != nil {
		results := assets.DeleteAll(ctx, s.deleter, urls)
		for _, r := range results {
			if r.Err != nil {
				slog.Warn("category image delete failed", "url", r.URL, "error", r.Err)
			}
		}
		failed = assets.FailedURLs(results)
	}

	// Children first: the parent_id foreign key restricts deleting a
	// row that still has children.
	ids := make([]uuid.UUID, 0, len(sub))
	for i := len(sub) - 1; i >= 0; i-- {
		ids = append(ids, sub[i].ID)
	}
	if err := s.repo.Delete(ids); err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}

	slog.Info("category deleted", "id", id, "cascade", cascade, "records", len(ids), "failed_images", len(failed))
	return &DeleteSummary{Deleted: len(ids), FailedImages: failed}, nil
}
