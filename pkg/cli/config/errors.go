package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound     = goerr.New("configuration file not found")
	ErrInvalidConfig      = goerr.New("invalid configuration")
	ErrInvalidFitPolicy   = goerr.New("invalid fit policy")
	ErrInvalidSearchScope = goerr.New("invalid search scope")
	ErrInvalidLogLevel    = goerr.New("invalid log level")
	ErrInvalidLogFormat   = goerr.New("invalid log format")
)

// Context keys for error values
const (
	ConfigPathKey  = "config_path"
	FitPolicyKey   = "fit_policy"
	SearchScopeKey = "search_scope"
	LogLevelKey    = "log_level"
	LogFormatKey   = "log_format"
)
