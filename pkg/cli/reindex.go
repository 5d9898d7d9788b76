package cli

import (
	"context"

	"github.com/cropai/cropai/pkg/cli/config"
	"github.com/cropai/cropai/pkg/usecase"
	"github.com/cropai/cropai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdReindex() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "reindex",
		Usage: "Fit a fresh vocabulary on every stored diagnosis and rewrite all vectors",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			result, err := usecase.New(repo).Diagnosis.Reindex(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to reindex diagnoses")
			}

			logging.Default().Info("Reindex completed",
				"documents", result.Documents,
				"vocabulary_size", result.VocabularySize,
				"vocabulary_id", result.VocabularyID,
			)
			return nil
		},
	}
}
