// Package gcs wraps the Cloud Storage client with bucket and blob listing,
// transfers, and the small name conversions the CLI exposes.
package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Client wraps a Cloud Storage client.
type Client struct {
	c *storage.Client
}

// ObjectInfo describes one blob in a bucket.
type ObjectInfo struct {
	Name        string
	Size        int64
	SizeHuman   string
	ContentType string
	Created     time.Time
}

// New creates a storage client using Application Default Credentials.
func New(ctx context.Context) (*Client, error) {
	c, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &Client{c: c}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.c.Close()
}

// Buckets lists all bucket names in a project.
func (c *Client) Buckets(ctx context.Context, projectID string) ([]string, error) {
	it := c.c.Buckets(ctx, projectID)
	var out []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing buckets: %w", err)
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

// Objects lists blobs in a bucket. A non-empty criteria keeps only blobs
// whose name contains it.
func (c *Client) Objects(ctx context.Context, bucket, criteria string) ([]ObjectInfo, error) {
	it := c.c.Bucket(bucket).Objects(ctx, nil)
	var out []ObjectInfo
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects in %s: %w", bucket, err)
		}
		if criteria != "" && !strings.Contains(attrs.Name, criteria) {
			continue
		}
		out = append(out, ObjectInfo{
			Name:        attrs.Name,
			Size:        attrs.Size,
			SizeHuman:   HumanSize(attrs.Size),
			ContentType: attrs.ContentType,
			Created:     attrs.Created,
		})
	}
	return out, nil
}

// Download reads a whole blob into memory.
func (c *Client) Download(ctx context.Context, bucket, object string) ([]byte, error) {
	rc, err := c.c.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening gs://%s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading gs://%s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// DownloadToFile saves a blob to a local path.
func (c *Client) DownloadToFile(ctx context.Context, bucket, object, dest string) error {
	rc, err := c.c.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("opening gs://%s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("downloading to %s: %w", dest, err)
	}
	return nil
}

// Upload writes r to a blob.
func (c *Client) Upload(ctx context.Context, bucket, object string, r io.Reader) error {
	w := c.c.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("uploading gs://%s/%s: %w", bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing gs://%s/%s: %w", bucket, object, err)
	}
	return nil
}

// Rename copies a blob to a new name and deletes the original.
func (c *Client) Rename(ctx context.Context, bucket, object, newName string) error {
	b := c.c.Bucket(bucket)
	src := b.Object(object)
	dst := b.Object(newName)

	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		return fmt.Errorf("copying %s to %s: %w", object, newName, err)
	}
	if err := src.Delete(ctx); err != nil {
		return fmt.Errorf("deleting %s after copy: %w", object, err)
	}
	return nil
}

// IDToURI converts a bucket ID to its gs:// URI.
func IDToURI(id string) string {
	return "gs://" + id
}

// URIToID converts a gs:// URI back to a bucket ID.
func URIToID(uri string) string {
	return strings.TrimPrefix(uri, "gs://")
}

// IDToURL converts a bucket ID to its Cloud Console URL.
func IDToURL(id string) string {
	return "https://console.cloud.google.com/storage/browser/" + id
}

// URLToID converts a Cloud Console URL back to a bucket ID.
func URLToID(url string) string {
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

// HumanSize renders a byte count with a binary unit suffix.
func HumanSize(size int64) string {
	const base = 1024.0
	s := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if s < base {
			return fmt.Sprintf("%.2f %s", s, unit)
		}
		s /= base
	}
	return fmt.Sprintf("%.2f TB", s)
}
