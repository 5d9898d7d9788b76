package config

import (
	"log/slog"

	httpctrl "github.com/cropai/cropai/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// Auth holds the shared secret for bearer token verification
type Auth struct {
	jwtSecret string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HS256 secret for API bearer tokens (authentication is disabled when empty)",
			Category:    "Authentication",
			Destination: &x.jwtSecret,
			Sources:     cli.EnvVars("CROPAI_JWT_SECRET"),
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", x.jwtSecret != ""),
		slog.Int("jwt-secret.len", len(x.jwtSecret)),
	)
}

// IsConfigured reports whether bearer tokens are required
func (x *Auth) IsConfigured() bool {
	return x.jwtSecret != ""
}

// HTTPOptions returns the server options enabling authentication, if configured
func (x *Auth) HTTPOptions() []httpctrl.Options {
	if !x.IsConfigured() {
		return nil
	}
	return []httpctrl.Options{httpctrl.WithJWTSecret([]byte(x.jwtSecret))}
}
