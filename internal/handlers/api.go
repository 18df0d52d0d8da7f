// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API of the back office: asset
// upload and deletion, the category tree, and the banner/slider
// collections. Every failure is a classified error mapped onto an HTTP
// status here, in one place.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"packmart/internal/apperr"
	"packmart/internal/cache"
	"packmart/internal/catalog"
	"packmart/internal/storage"
)

// AssetStore is the slice of the storage client the handlers need.
// *storage.Client satisfies it; tests substitute a fake.
type AssetStore interface {
	UploadBatch(ctx context.Context, files []storage.File) ([]string, error)
	DeleteByURL(ctx context.Context, url string) error
	UploadObject(ctx context.Context, key, contentType string, data []byte) (string, error)
	ExtractKey(rawURL string) (string, bool)
}

// API bundles the services behind the HTTP surface. assetStore and
// catalogCache are nil when the respective backend is not configured.
type API struct {
	categories   *catalog.Categories
	collections  *catalog.Collections
	assetStore   AssetStore
	catalogCache *cache.CatalogCache
}

// NewAPI creates the API handler set.
func NewAPI(categories *catalog.Categories, collections *catalog.Collections, assetStore AssetStore, catalogCache *cache.CatalogCache) *API {
	return &API{
		categories:   categories,
		collections:  collections,
		assetStore:   assetStore,
		catalogCache: catalogCache,
	}
}

// Health responds 200 for load balancer checks.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps a classified error onto its HTTP status. Unclassified
// errors are internal: logged in full, reported generically.
func writeError(w http.ResponseWriter, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch e.Kind {
	case apperr.Validation:
		status = http.StatusUnprocessableEntity
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Blocked:
		status = http.StatusConflict
	case apperr.Transport:
		status = http.StatusBadGateway
	case apperr.Remote:
		// Relay the remote status when we have one.
		status = http.StatusBadGateway
		if e.Status >= 400 {
			status = e.Status
		}
	}

	if status >= 500 {
		slog.Error("request failed", "kind", e.Kind, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": e.Message})
}

// pathID parses the {id} route parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.New(apperr.Validation, "invalid id")
	}
	return id, nil
}

// decodeJSON decodes a request body, rejecting unknown garbage early.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}
	return nil
}

// invalidateCatalogCache clears every cached catalog response after a
// write. Best-effort: a cold cache is just a slower read.
func (a *API) invalidateCatalogCache(ctx context.Context) {
	if a.catalogCache != nil {
		a.catalogCache.InvalidateAll(ctx)
	}
}
