package config

import (
	"errors"
	"os"

	"github.com/cropai/cropai/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// VectorizerFile is the optional TOML file tuning similarity search
//
//	fit_policy = "merge"
//	search_scope = "owner"
//	default_limit = 5
//	reindex_interval = "1h"
type VectorizerFile struct {
	FitPolicy       string `toml:"fit_policy"`
	SearchScope     string `toml:"search_scope"`
	DefaultLimit    int    `toml:"default_limit"`
	ReindexInterval string `toml:"reindex_interval"`
}

// Validate checks if the VectorizerFile is valid. Empty values are allowed and
// leave the flag values untouched.
func (v *VectorizerFile) Validate() error {
	if v.FitPolicy != "" && !types.FitPolicy(v.FitPolicy).IsValid() {
		return goerr.Wrap(ErrInvalidFitPolicy, "unknown fit_policy", goerr.V(FitPolicyKey, v.FitPolicy))
	}
	if v.SearchScope != "" && !types.SearchScope(v.SearchScope).IsValid() {
		return goerr.Wrap(ErrInvalidSearchScope, "unknown search_scope", goerr.V(SearchScopeKey, v.SearchScope))
	}
	if v.DefaultLimit < 0 {
		return goerr.Wrap(ErrInvalidConfig, "default_limit must not be negative", goerr.V("default_limit", v.DefaultLimit))
	}
	return nil
}

// LoadVectorizerFile loads the vectorizer configuration from a TOML file
func LoadVectorizerFile(path string) (*VectorizerFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "vectorizer config not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var file VectorizerFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}
