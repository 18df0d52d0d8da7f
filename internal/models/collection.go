// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CollectionKind distinguishes the two media collection surfaces.
type CollectionKind string

const (
	// CollectionBanner is a category or product banner strip.
	CollectionBanner CollectionKind = "banner"

	// CollectionSlider is a home-page slider.
	CollectionSlider CollectionKind = "slider"
)

// Valid reports whether k is a known collection kind.
func (k CollectionKind) Valid() bool {
	return k == CollectionBanner || k == CollectionSlider
}

// Collection is an ordered list of asset URLs plus metadata: a banner
// or a home-page slider. Updates replace the whole image list; there is
// no incremental add/remove on a persisted collection.
type Collection struct {
	ID     uuid.UUID      `json:"id"`
	Kind   CollectionKind `json:"kind"`
	Images []string       `json:"images"`

	// Optional category scoping for banners.
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	CategoryName    *string    `json:"category_name,omitempty"`
	SubCategoryID   *uuid.UUID `json:"sub_category_id,omitempty"`
	SubCategoryName *string    `json:"sub_category_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
