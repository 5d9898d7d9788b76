package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// Service stores crop images and returns a reference kept on the diagnosis
type Service interface {
	// Upload writes the image and returns its gs:// reference
	Upload(ctx context.Context, contentType string, r io.Reader) (string, error)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// Client uploads images to a Cloud Storage bucket
type Client struct {
	client *storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

var _ Service = &Client{}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithPrefix sets the object name prefix
func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = strings.Trim(prefix, "/")
	}
}

// New creates a Cloud Storage backed image store
func New(ctx context.Context, bucket string, opts ...Option) (*Client, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	c := &Client{
		client: client,
		bucket: bucket,
		prefix: "images",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Upload stores the image under <prefix>/YYYY/MM/DD/<uuid><ext>
func (c *Client) Upload(ctx context.Context, contentType string, r io.Reader) (string, error) {
	name, err := objectName(c.prefix, contentType, c.now())
	if err != nil {
		return "", err
	}

	w := c.client.Bucket(c.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write image", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize image upload", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}

	return fmt.Sprintf("gs://%s/%s", c.bucket, name), nil
}

// Close releases the underlying client
func (c *Client) Close() error {
	return c.client.Close()
}

// ErrUnsupportedContentType is returned for anything but the accepted image types
var ErrUnsupportedContentType = goerr.New("unsupported image content type")

func objectName(prefix, contentType string, now time.Time) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))]
	if !ok {
		return "", goerr.Wrap(ErrUnsupportedContentType, "cannot store image", goerr.V("content_type", contentType))
	}

	return path.Join(prefix, now.UTC().Format("2006/01/02"), uuid.New().String()+ext), nil
}
