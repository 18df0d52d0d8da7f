// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// catalog image assets. It wraps the AWS SDK v2 and is configured for
// path-style access (required by CEPH/Hetzner). Every failure is
// classified into the transport/remote taxonomy so callers can decide
// between rollback and logging.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"packmart/internal/apperr"
)

// opTimeout is the fixed ceiling for any single remote call. There is
// no retry loop; a timed-out operation fails like any other network
// failure and the operator re-triggers it manually.
const opTimeout = 30 * time.Second

// File is one raw asset payload to upload.
type File struct {
	Name        string // original filename, used only for the extension
	ContentType string
	Data        []byte
}

// Client wraps an S3 client for asset operations on a single public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	// Strip trailing slash from endpoint for consistent URL building.
	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// UploadBatch stores every file under a generated key and returns the
// public URLs in input order. On any failure the already-stored objects
// of this batch are best-effort deleted so a failed batch leaves nothing
// behind, and the classified error is returned.
func (c *Client) UploadBatch(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	keys := make([]string, 0, len(files))

	for _, f := range files {
		key := c.objectKey(f)
		if err := c.upload(ctx, key, f.ContentType, f.Data); err != nil {
			for _, k := range keys {
				if derr := c.deleteKey(ctx, k); derr != nil {
					slog.Warn("batch rollback delete failed", "key", k, "error", derr)
				}
			}
			return nil, err
		}
		keys = append(keys, key)
		urls = append(urls, c.FileURL(key))
	}

	return urls, nil
}

// DeleteByURL removes the object behind a public asset URL. Deleting an
// already-gone object is success, so the call is idempotent. URLs that
// do not belong to this store are rejected without a network call.
func (c *Client) DeleteByURL(ctx context.Context, rawURL string) error {
	key, ok := c.ExtractKey(rawURL)
	if !ok {
		return apperr.Newf(apperr.Validation, "url %q does not belong to the asset store", rawURL)
	}
	return c.deleteKey(ctx, key)
}

// FileURL returns the public URL for a stored object key.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// ExtractKey extracts the object key from a public asset URL.
// Returns the key and true if the URL matches the storage URL pattern,
// or ("", false) if it doesn't belong to this storage.
func (c *Client) ExtractKey(rawURL string) (string, bool) {
	// Try publicURL prefix first (CDN or custom domain).
	if c.publicURL != "" {
		prefix := c.publicURL + "/"
		if strings.HasPrefix(rawURL, prefix) {
			return rawURL[len(prefix):], true
		}
	}

	// Try endpoint/bucket prefix (path-style S3).
	prefix := c.endpoint + "/" + c.bucket + "/"
	if strings.HasPrefix(rawURL, prefix) {
		return rawURL[len(prefix):], true
	}

	return "", false
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// objectKey generates a unique storage key, partitioned by year/month
// like the rest of our media layout.
func (c *Client) objectKey(f File) string {
	now := time.Now()
	ext := filepath.Ext(f.Name)
	if ext == "" {
		ext = extensionFromType(f.ContentType)
	}
	return fmt.Sprintf("catalog/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)
}

// upload stores one object with public-read ACL.
func (c *Client) upload(ctx context.Context, key, contentType string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return classify(fmt.Sprintf("upload %s", key), err)
	}
	return nil
}

// deleteKey removes one object. A missing object is not an error.
func (c *Client) deleteKey(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return classify(fmt.Sprintf("delete %s", key), err)
	}
	return nil
}

// UploadObject stores an arbitrary object under an explicit key. Used
// for derived artifacts (thumbnails) that live next to their original.
func (c *Client) UploadObject(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := c.upload(ctx, key, contentType, data); err != nil {
		return "", err
	}
	return c.FileURL(key), nil
}

// isNotFound reports whether err is the remote saying the object does
// not exist. Treated as success by delete paths (idempotency).
func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

// classify maps an AWS SDK error onto the transport/remote taxonomy.
// A response with a failure status is Remote (with the remote message
// and status); no response at all is Transport.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.Transport, "asset store timed out: "+op, err)
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		e := apperr.FromStatus(respErr.HTTPStatusCode(), remoteMessage(err))
		e.Err = err
		return e
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apperr.Wrap(apperr.Remote, apiErr.ErrorMessage(), err)
	}

	return apperr.Wrap(apperr.Transport, "asset store unreachable: "+op, err)
}

// remoteMessage extracts the remote-provided message, if any.
func remoteMessage(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorMessage()
	}
	return ""
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
