// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"packmart/internal/apperr"
	"packmart/internal/assets"
	"packmart/internal/models"
)

// CollectionRepo is the persistence surface the collection service
// needs. *store.CollectionStore satisfies it.
type CollectionRepo interface {
	List(kind models.CollectionKind) ([]models.Collection, error)
	FindByID(id uuid.UUID) (*models.Collection, error)
	Create(c *models.Collection) (*models.Collection, error)
	ReplaceImages(id uuid.UUID, images []string) (*models.Collection, error)
	Delete(id uuid.UUID) (*models.Collection, error)
}

// Collections manages banner and slider collections: ordered image
// lists with full-replace update semantics and asset cleanup on
// replace and delete.
type Collections struct {
	repo    CollectionRepo
	deleter assets.Deleter // nil when no asset store is configured
}

// NewCollections returns a new collection service.
func NewCollections(repo CollectionRepo, deleter assets.Deleter) *Collections {
	return &Collections{repo: repo, deleter: deleter}
}

// CollectionInput carries the caller-supplied fields of a new collection.
type CollectionInput struct {
	Images          []string
	CategoryID      *uuid.UUID
	CategoryName    *string
	SubCategoryID   *uuid.UUID
	SubCategoryName *string
}

// Create persists a new collection of the given kind. The image list
// must be non-empty; a collection is nothing without its images.
func (s *Collections) Create(kind models.CollectionKind, in CollectionInput) (*models.Collection, error) {
	if !kind.Valid() {
		return nil, apperr.Newf(apperr.Validation, "unknown collection kind %q", kind)
	}
	if len(in.Images) == 0 {
		return nil, apperr.New(apperr.Validation, "at least one image is required")
	}

	created, err := s.repo.Create(&models.Collection{
		Kind:            kind,
		Images:          in.Images,
		CategoryID:      in.CategoryID,
		CategoryName:    in.CategoryName,
		SubCategoryID:   in.SubCategoryID,
		SubCategoryName: in.SubCategoryName,
	})
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return created, nil
}

// Update replaces the whole image list of a collection. Images dropped
// by the replace are deleted from the asset store best-effort; cleanup
// failures are reported but never fail the update itself.
func (s *Collections) Update(ctx context.Context, id uuid.UUID, images []string) (*models.Collection, []string, error) {
	if len(images) == 0 {
		return nil, nil, apperr.New(apperr.Validation, "at least one image is required")
	}

	prev, err := s.repo.FindByID(id)
	if err != nil {
		return nil, nil, fmt.Errorf("update collection: %w", err)
	}
	if prev == nil {
		return nil, nil, apperr.New(apperr.NotFound, "collection not found")
	}

	updated, err := s.repo.ReplaceImages(id, images)
	if err != nil {
		return nil, nil, fmt.Errorf("update collection: %w", err)
	}
	if updated == nil {
		return nil, nil, apperr.New(apperr.NotFound, "collection not found")
	}

	var failed []string
	if s.deleter != nil {
		dropped := assets.Orphans(prev.Images, images)
		for _, f := range assets.Cleanup(ctx, s.deleter, dropped) {
			failed = append(failed, f.URL)
		}
	}
	return updated, failed, nil
}

// Delete removes the collection record, then best-effort-deletes every
// image it held. Image failures are logged and returned for display;
// the record is gone regardless.
func (s *Collections) Delete(ctx context.Context, id uuid.UUID) (*DeleteSummary, error) {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return nil, fmt.Errorf("delete collection: %w", err)
	}
	if deleted == nil {
		return nil, apperr.New(apperr.NotFound, "collection not found")
	}

	var failed []string
	if s.deleter != nil {
		results := assets.DeleteAll(ctx, s.deleter, deleted.Images)
		for _, r := range results {
			if r.Err != nil {
				slog.Warn("collection image delete failed", "url", r.URL, "error", r.Err)
			}
		}
		failed = assets.FailedURLs(results)
	}

	slog.Info("collection deleted", "id", id, "kind", deleted.Kind, "failed_images", len(failed))
	return &DeleteSummary{Deleted: 1, FailedImages: failed}, nil
}

// List returns all collections of a kind, newest first.
func (s *Collections) List(kind models.CollectionKind) ([]models.Collection, error) {
	if !kind.Valid() {
		return nil, apperr.Newf(apperr.Validation, "unknown collection kind %q", kind)
	}
	return s.repo.List(kind)
}
