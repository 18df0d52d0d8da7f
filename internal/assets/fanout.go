// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package assets

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxDeleteConcurrency bounds the parallel delete fan-out so a large
// cascade doesn't open hundreds of connections to the asset store.
const maxDeleteConcurrency = 8

// Deleter deletes a single asset by its public URL.
type Deleter interface {
	DeleteByURL(ctx context.Context, url string) error
}

// DeleteResult is the settled outcome of one asset delete.
type DeleteResult struct {
	URL string
	Err error
}

// DeleteAll issues parallel best-effort deletes for every URL and
// returns one settled outcome per URL, in input order. One failing
// deletion never aborts the others; the caller decides what to do with
// the failures.
func DeleteAll(ctx context.Context, d Deleter, urls []string) []DeleteResult {
	if len(urls) == 0 {
		return nil
	}

	results := make([]DeleteResult, len(urls))

	var g errgroup.Group
	g.SetLimit(maxDeleteConcurrency)
	for i, url := range urls {
		g.Go(func() error {
			results[i] = DeleteResult{URL: url, Err: d.DeleteByURL(ctx, url)}
			return nil
		})
	}
	// Goroutines always return nil; failures live in the results.
	g.Wait()

	return results
}

// FailedURLs extracts the URLs whose delete failed.
func FailedURLs(results []DeleteResult) []string {
	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.URL)
		}
	}
	return failed
}
