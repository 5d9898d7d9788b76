package config

import (
	"context"
	"log/slog"

	"github.com/cropai/cropai/pkg/service/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage holds configuration for the crop image bucket
type Storage struct {
	bucket string
	prefix string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "image-bucket",
			Usage:       "Cloud Storage bucket for uploaded crop images (upload is disabled when empty)",
			Category:    "Storage",
			Destination: &x.bucket,
			Sources:     cli.EnvVars("CROPAI_IMAGE_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "image-prefix",
			Usage:       "Object name prefix for uploaded crop images",
			Category:    "Storage",
			Value:       "images",
			Destination: &x.prefix,
			Sources:     cli.EnvVars("CROPAI_IMAGE_PREFIX"),
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
	)
}

// Configure creates the image store. Returns nil when no bucket is configured.
// The caller is responsible for calling Close() on the returned client.
func (x *Storage) Configure(ctx context.Context) (*storage.Client, error) {
	if x.bucket == "" {
		return nil, nil
	}

	client, err := storage.New(ctx, x.bucket, storage.WithPrefix(x.prefix))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create image store", goerr.V("bucket", x.bucket))
	}
	return client, nil
}
