package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cropai/cropai/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vectorizer.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadVectorizerFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    config.VectorizerFile
		wantErr error
	}{
		{
			name: "all keys",
			content: `
fit_policy = "replace"
search_scope = "all"
default_limit = 8
reindex_interval = "30m"
`,
			want: config.VectorizerFile{
				FitPolicy:       "replace",
				SearchScope:     "all",
				DefaultLimit:    8,
				ReindexInterval: "30m",
			},
		},
		{
			name:    "empty file keeps defaults",
			content: "",
			want:    config.VectorizerFile{},
		},
		{
			name:    "unknown fit policy",
			content: `fit_policy = "append"`,
			wantErr: config.ErrInvalidFitPolicy,
		},
		{
			name:    "unknown search scope",
			content: `search_scope = "field"`,
			wantErr: config.ErrInvalidSearchScope,
		},
		{
			name:    "negative limit",
			content: `default_limit = -1`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "malformed toml",
			content: `fit_policy = `,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := config.LoadVectorizerFile(writeConfig(t, tt.content))
			if tt.wantErr != nil {
				gt.Value(t, err).NotNil()
				gt.Bool(t, errors.Is(err, tt.wantErr)).True()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, *file).Equal(tt.want)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadVectorizerFile(filepath.Join(t.TempDir(), "missing.toml"))
		gt.Bool(t, errors.Is(err, config.ErrConfigNotFound)).True()
	})
}

func TestVectorizer_Configure(t *testing.T) {
	t.Run("flag values", func(t *testing.T) {
		cfg := config.NewVectorizerForTest("", "merge", "owner", 5, 0)
		opts, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Array(t, opts).Length(3)
		gt.Value(t, cfg.ReindexInterval()).Equal(time.Duration(0))
	})

	t.Run("invalid fit policy flag", func(t *testing.T) {
		cfg := config.NewVectorizerForTest("", "append", "owner", 5, 0)
		_, err := cfg.Configure()
		gt.Bool(t, errors.Is(err, config.ErrInvalidFitPolicy)).True()
	})

	t.Run("invalid search scope flag", func(t *testing.T) {
		cfg := config.NewVectorizerForTest("", "merge", "everyone", 5, 0)
		_, err := cfg.Configure()
		gt.Bool(t, errors.Is(err, config.ErrInvalidSearchScope)).True()
	})

	t.Run("file overrides flags", func(t *testing.T) {
		path := writeConfig(t, `
fit_policy = "replace"
reindex_interval = "2h"
`)
		cfg := config.NewVectorizerForTest(path, "merge", "owner", 5, time.Minute)
		opts, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Array(t, opts).Length(3)
		gt.Value(t, cfg.ReindexInterval()).Equal(2 * time.Hour)
	})

	t.Run("invalid interval in file", func(t *testing.T) {
		path := writeConfig(t, `reindex_interval = "soon"`)
		cfg := config.NewVectorizerForTest(path, "merge", "owner", 5, 0)
		_, err := cfg.Configure()
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})
}
