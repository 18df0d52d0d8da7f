// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assets coordinates the lifecycle of catalog images during an
// authoring session: batch-validated uploads, optimistic removal with
// rollback, and best-effort cleanup of orphaned uploads after a save.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"packmart/internal/apperr"
	"packmart/internal/storage"
)

const (
	// MaxFileSize is the upload ceiling per file (10 MiB).
	MaxFileSize = 10 << 20
)

// allowedImageTypes defines the sniffed MIME types accepted for upload.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Store is the slice of the storage client a session needs. Defined here
// so tests can substitute a fake.
type Store interface {
	UploadBatch(ctx context.Context, files []storage.File) ([]string, error)
	DeleteByURL(ctx context.Context, url string) error
}

// Session owns the in-memory image list for one entity being created or
// edited. All mutating operations are serialized by an internal mutex:
// a removal can never race an in-flight upload onto a stale index.
type Session struct {
	mu       sync.Mutex
	store    Store
	images   []string
	uploaded []string // every URL uploaded during this session
}

// NewSession starts an authoring session. existing carries the image
// list of the entity being edited (empty for a new entity).
func NewSession(store Store, existing []string) *Session {
	return &Session{
		store:  store,
		images: append([]string(nil), existing...),
	}
}

// Validate checks the entire batch before any network call. If any file
// fails, the whole batch is rejected and nothing is uploaded. The
// content type is sniffed from the payload, never trusted from the
// request.
func Validate(files []storage.File) error {
	if len(files) == 0 {
		return apperr.New(apperr.Validation, "no files provided")
	}
	for i := range files {
		f := &files[i]
		if int64(len(f.Data)) > MaxFileSize {
			return apperr.Newf(apperr.Validation, "%s exceeds the 10 MiB limit", f.Name)
		}
		sniffed := http.DetectContentType(f.Data)
		if !allowedImageTypes[sniffed] {
			return apperr.Newf(apperr.Validation, "%s: file type %q is not allowed", f.Name, sniffed)
		}
		f.ContentType = sniffed
	}
	return nil
}

// Upload validates then sends the batch to the asset store in one call.
// On success the returned URLs are appended, in order, to the session's
// image list. On failure the list is left untouched.
func (s *Session) Upload(ctx context.Context, files []storage.File) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Validate(files); err != nil {
		return nil, err
	}

	urls, err := s.store.UploadBatch(ctx, files)
	if err != nil {
		return nil, err
	}

	s.images = append(s.images, urls...)
	s.uploaded = append(s.uploaded, urls...)
	return urls, nil
}

// Remove takes the image at index out of the list optimistically, then
// issues the remote delete. If the remote delete fails, the original
// list is restored so the in-memory state never claims a deletion that
// did not happen. An already-gone asset counts as deleted.
func (s *Session) Remove(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.images
	next, removed, ok := applyRemoval(prev, index)
	if !ok {
		return apperr.Newf(apperr.Validation, "image index %d out of range", index)
	}

	s.images = next

	if err := s.store.DeleteByURL(ctx, removed); err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		s.images = prev
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// Images returns a snapshot of the current image list in display order.
func (s *Session) Images() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.images...)
}

// CleanupOrphans deletes every asset uploaded during this session that
// is absent from the saved image list. Failures are logged and returned
// for display; they never fail the save that triggered the cleanup.
func (s *Session) CleanupOrphans(ctx context.Context, saved []string) []DeleteResult {
	s.mu.Lock()
	orphans := Orphans(s.uploaded, saved)
	s.mu.Unlock()

	return Cleanup(ctx, s.store, orphans)
}

// Orphans returns the URLs present in uploaded but not in saved,
// preserving upload order.
func Orphans(uploaded, saved []string) []string {
	kept := make(map[string]bool, len(saved))
	for _, u := range saved {
		kept[u] = true
	}
	var orphans []string
	for _, u := range uploaded {
		if !kept[u] {
			orphans = append(orphans, u)
		}
	}
	return orphans
}

// Cleanup issues best-effort deletes for the given URLs and logs each
// failure. Returns only the failed outcomes.
func Cleanup(ctx context.Context, d Deleter, urls []string) []DeleteResult {
	var failures []DeleteResult
	for _, res := range DeleteAll(ctx, d, urls) {
		if res.Err != nil {
			slog.Warn("orphan cleanup failed", "url", res.URL, "error", res.Err)
			failures = append(failures, res)
		}
	}
	return failures
}

// applyRemoval removes the element at index and returns the new list,
// the removed element, and whether the index was valid. The input slice
// is never mutated, so the caller can keep it for rollback.
func applyRemoval(list []string, index int) ([]string, string, bool) {
	if index < 0 || index >= len(list) {
		return list, "", false
	}
	next := make([]string, 0, len(list)-1)
	next = append(next, list[:index]...)
	next = append(next, list[index+1:]...)
	return next, list[index], true
}
