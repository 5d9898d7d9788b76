package config

import (
	"errors"
	"log/slog"
	"time"

	"github.com/cropai/cropai/pkg/domain/types"
	"github.com/cropai/cropai/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Vectorizer holds CLI flags for similarity search. Values from --vectorizer-config
// override the individual flags.
type Vectorizer struct {
	configPath      string
	fitPolicy       string
	searchScope     string
	similarLimit    int
	reindexInterval time.Duration
}

// Flags returns CLI flags for vectorizer configuration
func (v *Vectorizer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vectorizer-config",
			Usage:       "Path to a TOML file with fit_policy, search_scope, default_limit and reindex_interval",
			Category:    "Vectorizer",
			Sources:     cli.EnvVars("CROPAI_VECTORIZER_CONFIG"),
			Destination: &v.configPath,
		},
		&cli.StringFlag{
			Name:        "fit-policy",
			Usage:       "Vocabulary update on save (merge or replace)",
			Category:    "Vectorizer",
			Value:       types.DefaultFitPolicy.String(),
			Sources:     cli.EnvVars("CROPAI_FIT_POLICY"),
			Destination: &v.fitPolicy,
		},
		&cli.StringFlag{
			Name:        "search-scope",
			Usage:       "Candidates for similarity search (owner or all)",
			Category:    "Vectorizer",
			Value:       types.SearchScopeOwner.String(),
			Sources:     cli.EnvVars("CROPAI_SEARCH_SCOPE"),
			Destination: &v.searchScope,
		},
		&cli.IntFlag{
			Name:        "similar-limit",
			Usage:       "Default number of similar diagnoses returned",
			Category:    "Vectorizer",
			Value:       usecase.DefaultSimilarLimit,
			Sources:     cli.EnvVars("CROPAI_SIMILAR_LIMIT"),
			Destination: &v.similarLimit,
		},
		&cli.DurationFlag{
			Name:        "reindex-interval",
			Usage:       "Interval of the background reindex worker (0 disables it)",
			Category:    "Vectorizer",
			Sources:     cli.EnvVars("CROPAI_REINDEX_INTERVAL"),
			Destination: &v.reindexInterval,
		},
	}
}

func (v Vectorizer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config", v.configPath),
		slog.String("fit_policy", v.fitPolicy),
		slog.String("search_scope", v.searchScope),
		slog.Int("similar_limit", v.similarLimit),
		slog.Duration("reindex_interval", v.reindexInterval),
	)
}

// Configure resolves the flags and the optional TOML file into use case options
func (v *Vectorizer) Configure() ([]usecase.Option, error) {
	if v.configPath != "" {
		file, err := LoadVectorizerFile(v.configPath)
		if err != nil {
			return nil, err
		}
		if file.FitPolicy != "" {
			v.fitPolicy = file.FitPolicy
		}
		if file.SearchScope != "" {
			v.searchScope = file.SearchScope
		}
		if file.DefaultLimit > 0 {
			v.similarLimit = file.DefaultLimit
		}
		if file.ReindexInterval != "" {
			interval, err := time.ParseDuration(file.ReindexInterval)
			if err != nil {
				return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "invalid reindex_interval",
					goerr.V(ConfigPathKey, v.configPath), goerr.V("reindex_interval", file.ReindexInterval))
			}
			v.reindexInterval = interval
		}
	}

	policy := types.FitPolicy(v.fitPolicy)
	if !policy.IsValid() {
		return nil, goerr.Wrap(ErrInvalidFitPolicy, "unknown fit policy", goerr.V(FitPolicyKey, v.fitPolicy))
	}
	scope := types.SearchScope(v.searchScope)
	if !scope.IsValid() {
		return nil, goerr.Wrap(ErrInvalidSearchScope, "unknown search scope", goerr.V(SearchScopeKey, v.searchScope))
	}

	return []usecase.Option{
		usecase.WithFitPolicy(policy),
		usecase.WithSearchScope(scope),
		usecase.WithSimilarLimit(v.similarLimit),
	}, nil
}

// ReindexInterval returns the background reindex interval; zero means disabled
func (v *Vectorizer) ReindexInterval() time.Duration {
	return v.reindexInterval
}
