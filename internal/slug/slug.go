// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation for catalog entities.
// Slugs are always derived from the display name, never supplied by
// callers, so the transform must stay deterministic.
package slug

import (
	"strings"

	gosimple "github.com/gosimple/slug"
)

// maxLength caps generated slugs so they stay usable as URL segments
// and index keys.
const maxLength = 120

// Generate creates a URL-friendly slug from the given string.
// Example: "Moving Boxes" → "moving-boxes"
func Generate(s string) string {
	result := gosimple.Make(strings.TrimSpace(s))
	if len(result) > maxLength {
		result = strings.Trim(result[:maxLength], "-")
	}
	return result
}
