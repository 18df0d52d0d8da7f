// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"packmart/internal/cache"
	"packmart/internal/catalog"
	"packmart/internal/models"
)

// collectionRequest is the JSON payload for collection create.
type collectionRequest struct {
	Images          []string   `json:"images"`
	CategoryID      *uuid.UUID `json:"category_id"`
	CategoryName    *string    `json:"category_name"`
	SubCategoryID   *uuid.UUID `json:"sub_category_id"`
	SubCategoryName *string    `json:"sub_category_name"`
}

// collectionUpdateRequest carries the replacement image list. Updates
// are full replaces; there is no incremental add or remove.
type collectionUpdateRequest struct {
	Images []string `json:"images"`
}

// CollectionsList returns all collections of one kind, newest first.
func (a *API) CollectionsList(kind models.CollectionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := cache.CollectionsKey(string(kind))
		if a.catalogCache != nil {
			if data, ok := a.catalogCache.Get(r.Context(), key); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Write(data)
				return
			}
		}

		items, err := a.collections.List(kind)
		if err != nil {
			writeError(w, err)
			return
		}
		if items == nil {
			items = []models.Collection{}
		}

		data, err := json.Marshal(items)
		if err != nil {
			writeError(w, err)
			return
		}
		if a.catalogCache != nil {
			a.catalogCache.Set(r.Context(), key, data)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// CollectionsCreate creates a collection of the given kind.
func (a *API) CollectionsCreate(kind models.CollectionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req collectionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		created, err := a.collections.Create(kind, catalog.CollectionInput{
			Images:          req.Images,
			CategoryID:      req.CategoryID,
			CategoryName:    req.CategoryName,
			SubCategoryID:   req.SubCategoryID,
			SubCategoryName: req.SubCategoryName,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		a.invalidateCatalogCache(r.Context())
		writeJSON(w, http.StatusCreated, created)
	}
}

// CollectionsUpdate replaces the whole image list of a collection and
// reports any asset cleanup failures for the images that were dropped.
func (a *API) CollectionsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req collectionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, failed, err := a.collections.Update(r.Context(), id, req.Images)
	if err != nil {
		writeError(w, err)
		return
	}

	a.invalidateCatalogCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"collection":    updated,
		"failed_images": failed,
	})
}

// CollectionsDelete removes a collection and best-effort-deletes its
// images.
func (a *API) CollectionsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := a.collections.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	a.invalidateCatalogCache(r.Context())
	writeJSON(w, http.StatusOK, summary)
}
