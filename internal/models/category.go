// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents one node of the catalog's category tree.
// Images are asset URLs in display order; a persisted category always
// has at least one. ParentID nil means the category is top-level.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Color       string     `json:"color"`
	Description string     `json:"description,omitempty"`
	Images      []string   `json:"images"`
	ParentID    *uuid.UUID `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	Children []Category `json:"children,omitempty"`
	Depth    int        `json:"depth"`

	// DescriptionHTML is rendered from Description by the handlers.
	DescriptionHTML string `json:"description_html,omitempty"`
}

// IsRoot returns true for top-level categories.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
