package config

import (
	"context"
	"log/slog"

	"github.com/cropai/cropai/pkg/service/analysis"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini holds configuration for LLM crop analysis on Vertex AI
type Gemini struct {
	projectID string
	location  string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini crop analysis (canned analysis when empty)",
			Category:    "Gemini",
			Sources:     cli.EnvVars("CROPAI_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Category:    "Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("CROPAI_GEMINI_LOCATION"),
			Destination: &g.location,
		},
	}
}

func (g Gemini) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", g.IsEnabled()),
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
	)
}

// IsEnabled reports whether analysis goes to Gemini
func (g *Gemini) IsEnabled() bool {
	return g.projectID != ""
}

// Configure returns the crop analysis service. Without a project it returns the
// canned analysis used for development and as the LLM fallback.
func (g *Gemini) Configure(ctx context.Context) (analysis.Service, error) {
	if !g.IsEnabled() {
		return analysis.NewMock(), nil
	}

	client, err := gemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project_id", g.projectID), goerr.V("location", g.location))
	}

	svc, err := analysis.New(client)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize crop analysis")
	}
	return svc, nil
}
