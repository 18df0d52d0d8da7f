// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"packmart/internal/cache"
	"packmart/internal/catalog"
	"packmart/internal/markdown"
	"packmart/internal/models"
)

// categoryRequest is the JSON payload for category create and update.
// The slug is derived server-side and never accepted from the client.
type categoryRequest struct {
	Name        string     `json:"name"`
	Color       string     `json:"color"`
	Description string     `json:"description"`
	Images      []string   `json:"images"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

func (req *categoryRequest) input() catalog.CategoryInput {
	return catalog.CategoryInput{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
		Images:      req.Images,
		ParentID:    req.ParentID,
	}
}

// CategoriesList returns all categories, flat by default or nested with
// ?tree=1. Responses are served from the catalog cache when warm.
func (a *API) CategoriesList(w http.ResponseWriter, r *http.Request) {
	tree := r.URL.Query().Get("tree") == "1"

	key := cache.CategoriesKey()
	if tree {
		key = cache.CategoryTreeKey()
	}
	if a.catalogCache != nil {
		if data, ok := a.catalogCache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(data)
			return
		}
	}

	var items []models.Category
	var err error
	if tree {
		items, err = a.categories.Tree()
	} else {
		items, err = a.categories.List()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	renderDescriptions(items)

	if items == nil {
		items = []models.Category{}
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

// CategoriesGet returns a single category with its images.
func (a *API) CategoriesGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := a.categories.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	renderDescription(c)
	writeJSON(w, http.StatusOK, c)
}

// CategoriesChildren returns the direct children of a category.
func (a *API) CategoriesChildren(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	kids, err := a.categories.FindChildren(id)
	if err != nil {
		writeError(w, err)
		return
	}
	renderDescriptions(kids)
	if kids == nil {
		kids = []models.Category{}
	}
	writeJSON(w, http.StatusOK, kids)
}

// CategoriesCreate creates a category from a validated payload.
func (a *API) CategoriesCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := a.categories.Create(req.input())
	if err != nil {
		writeError(w, err)
		return
	}

	a.invalidateCatalogCache(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// CategoriesUpdate replaces every field of a category, image list
// included, and re-derives the slug.
func (a *API) CategoriesUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := a.categories.Update(id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}

	a.invalidateCatalogCache(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// CategoriesDelete removes a category. Deleting one with children is
// refused unless ?cascade=1 is passed, in which case the whole subtree
// goes, assets included (best-effort).
func (a *API) CategoriesDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cascade := r.URL.Query().Get("cascade") == "1"
	summary, err := a.categories.Delete(r.Context(), id, cascade)
	if err != nil {
		writeError(w, err)
		return
	}

	a.invalidateCatalogCache(r.Context())
	writeJSON(w, http.StatusOK, summary)
}

// renderDescription fills DescriptionHTML from the Markdown source.
func renderDescription(c *models.Category) {
	if c.Description == "" {
		return
	}
	html, err := markdown.ToHTML(c.Description)
	if err != nil {
		slog.Warn("description render failed", "category", c.ID, "error", err)
		return
	}
	c.DescriptionHTML = html
}

// renderDescriptions renders descriptions for a list, recursing into
// tree children.
func renderDescriptions(items []models.Category) {
	for i := range items {
		renderDescription(&items[i])
		renderDescriptions(items[i].Children)
	}
}
