package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cropai/cropai/pkg/cli/config"
	"github.com/cropai/cropai/pkg/usecase"
	"github.com/cropai/cropai/pkg/utils/logging"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdSimilar() *cli.Command {
	var ownerID string
	var limit int
	var repoCfg config.Repository
	var vectorizerCfg config.Vectorizer

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Owner whose diagnoses are searched (required unless --search-scope=all)",
			Sources:     cli.EnvVars("CROPAI_OWNER_ID"),
			Destination: &ownerID,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of results",
			Destination: &limit,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, vectorizerCfg.Flags()...)

	return &cli.Command{
		Name:      "similar",
		Usage:     "Search stored diagnoses similar to a query",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				return goerr.New("query is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts, err := vectorizerCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure vectorizer")
			}
			uc := usecase.New(repo, ucOpts...)

			similar, err := uc.Diagnosis.FindSimilar(ctx, query, ownerID, limit)
			if err != nil {
				return goerr.Wrap(err, "failed to find similar diagnoses", goerr.V("query", query))
			}

			printSimilar(os.Stdout, query, similar)
			return nil
		},
	}
}

func printSimilar(w io.Writer, query string, similar []*usecase.SimilarDiagnosis) {
	title := color.New(color.FgCyan, color.Bold)
	issue := color.New(color.FgGreen, color.Bold)
	score := color.New(color.FgYellow)
	faint := color.New(color.Faint)

	_, _ = title.Fprintf(w, "Similar diagnoses for %q\n", query)
	if len(similar) == 0 {
		_, _ = faint.Fprintln(w, "  (no diagnoses found)")
		return
	}

	for i, s := range similar {
		r := s.Record
		_, _ = fmt.Fprintf(w, "%2d. ", i+1)
		_, _ = issue.Fprint(w, r.Diagnosis.Issue)
		_, _ = score.Fprintf(w, "  %.3f\n", s.Similarity)
		_, _ = faint.Fprintf(w, "    id=%s owner=%s created=%s\n", r.ID, r.OwnerID, r.CreatedAt.Format("2006-01-02 15:04"))
		for _, rec := range r.Diagnosis.Recommendations {
			_, _ = fmt.Fprintf(w, "    - %s\n", rec)
		}
		if r.HasFeedback() {
			_, _ = faint.Fprintf(w, "    feedback: %s\n", r.Feedback)
		}
	}
}
