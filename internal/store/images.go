// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// images.go holds the helpers shared by the image child tables
// (category_images, collection_images). Position is the display order.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// querier is the subset of *sql.DB / *sql.Tx the helpers need.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// insertImages writes an ordered URL list into an image child table.
func insertImages(q querier, table, ownerColumn string, ownerID uuid.UUID, urls []string) error {
	for i, url := range urls {
		_, err := q.Exec(
			fmt.Sprintf(`INSERT INTO %s (%s, position, url) VALUES ($1, $2, $3)`, table, ownerColumn),
			ownerID, i, url,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// queryImages runs an image query and collects the URLs in row order.
func queryImages(q querier, query string, args ...any) ([]string, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan image url: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}
