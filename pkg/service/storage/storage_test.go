package storage_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cropai/cropai/pkg/service/storage"
	"github.com/m-mizutani/gt"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2024, 6, 3, 23, 30, 0, 0, time.UTC)

	t.Run("dated path with extension", func(t *testing.T) {
		name, err := storage.ObjectName("images", "image/jpeg", now)
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.HasPrefix(name, "images/2024/06/03/")).True()
		gt.Bool(t, strings.HasSuffix(name, ".jpg")).True()
	})

	t.Run("parameters in content type ignored", func(t *testing.T) {
		name, err := storage.ObjectName("uploads", "Image/PNG; charset=binary", now)
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.HasSuffix(name, ".png")).True()
	})

	t.Run("names are unique", func(t *testing.T) {
		a, _ := storage.ObjectName("images", "image/webp", now)
		b, _ := storage.ObjectName("images", "image/webp", now)
		gt.String(t, a).NotEqual(b)
	})

	t.Run("rejects non image", func(t *testing.T) {
		_, err := storage.ObjectName("images", "application/pdf", now)
		gt.Bool(t, errors.Is(err, storage.ErrUnsupportedContentType)).True()
	})
}

func TestNew(t *testing.T) {
	_, err := storage.New(context.Background(), "")
	gt.Value(t, err).NotNil()
}

func TestUpload_WithRealBucket(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET not set")
	}

	ctx := context.Background()
	client, err := storage.New(ctx, bucket, storage.WithPrefix("test"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, client.Close())
	})

	ref, err := client.Upload(ctx, "image/png", strings.NewReader("\x89PNG fake"))
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.HasPrefix(ref, "gs://"+bucket+"/test/")).True()
}
