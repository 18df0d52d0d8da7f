// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"packmart/internal/assets"
	"packmart/internal/imaging"
	"packmart/internal/storage"
)

// maxUploadBody caps a whole upload request: a handful of images at the
// 10 MiB per-file ceiling plus form overhead.
const maxUploadBody = 64 << 20

// AssetsUpload stores a validated batch of images and returns their
// public URLs in input order. The whole batch is validated before any
// byte leaves the process; one bad file rejects everything. Thumbnails
// are generated best-effort and never fail the upload.
func (a *API) AssetsUpload(w http.ResponseWriter, r *http.Request) {
	if a.assetStore == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "object storage is not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload too large"})
		return
	}

	var files []storage.File
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read upload"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read upload"})
			return
		}
		files = append(files, storage.File{Name: header.Filename, Data: data})
	}

	session := assets.NewSession(a.assetStore, nil)
	urls, err := session.Upload(r.Context(), files)
	if err != nil {
		writeError(w, err)
		return
	}

	// Derived thumbnails live next to their originals.
	thumbs := make([]string, len(urls))
	for i, url := range urls {
		key, ok := a.assetStore.ExtractKey(url)
		if !ok {
			continue
		}
		thumb, err := imaging.Thumbnail(files[i].Data, imaging.ThumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "url", url, "error", err)
			continue
		}
		if thumb == nil {
			continue // original already small enough
		}
		thumbURL, err := a.assetStore.UploadObject(r.Context(), imaging.ThumbKey(key), "image/jpeg", thumb)
		if err != nil {
			slog.Warn("thumbnail upload failed", "url", url, "error", err)
			continue
		}
		thumbs[i] = thumbURL
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"urls":       urls,
		"thumb_urls": thumbs,
	})
}

// AssetsDelete removes a single asset by its public URL. Deleting an
// already-gone asset succeeds; the operation is idempotent.
func (a *API) AssetsDelete(w http.ResponseWriter, r *http.Request) {
	if a.assetStore == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "object storage is not configured"})
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "url parameter is required"})
		return
	}

	if err := a.assetStore.DeleteByURL(r.Context(), url); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// cleanupRequest names the URLs uploaded during an authoring session
// and the ones the saved entity actually kept.
type cleanupRequest struct {
	Uploaded []string `json:"uploaded"`
	Saved    []string `json:"saved"`
}

// AssetsCleanup reclaims orphans from an abandoned or completed
// authoring session: every uploaded URL absent from the saved list is
// deleted best-effort. Failures are reported, never fatal.
func (a *API) AssetsCleanup(w http.ResponseWriter, r *http.Request) {
	if a.assetStore == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "object storage is not configured"})
		return
	}

	var req cleanupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	orphans := assets.Orphans(req.Uploaded, req.Saved)
	failures := assets.Cleanup(r.Context(), a.assetStore, orphans)

	writeJSON(w, http.StatusOK, map[string]any{
		"cleaned": len(orphans) - len(failures),
		"failed":  assetFailureURLs(failures),
	})
}

func assetFailureURLs(failures []assets.DeleteResult) []string {
	urls := make([]string, 0, len(failures))
	for _, f := range failures {
		urls = append(urls, f.URL)
	}
	return urls
}
