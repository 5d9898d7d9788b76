package cli

import (
	"context"
	"strings"

	"github.com/cropai/cropai/pkg/cli/config"
	"github.com/cropai/cropai/pkg/repository/firestore"
	"github.com/cropai/cropai/pkg/utils/logging"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool
	var allowDestructive bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print the migration plan without applying it",
			Destination: &dryRun,
		},
		&cli.BoolFlag{
			Name:        "allow-destructive",
			Usage:       "Apply plans that drop existing indexes",
			Sources:     cli.EnvVars("CROPAI_MIGRATE_ALLOW_DESTRUCTIVE"),
			Destination: &allowDestructive,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the Firestore indexes used by diagnosis listings and owner-scoped search",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if repoCfg.ProjectID() == "" {
				return goerr.New("--firestore-project-id is required for migrate")
			}

			logger := logging.Default().With("repository", repoCfg)
			indexConfig := getIndexConfig(repoCfg.CollectionPrefix())

			client, err := fireconf.New(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID(), indexConfig,
				fireconf.WithLogger(logger))
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			names := make([]string, 0, len(indexConfig.Collections))
			for _, col := range indexConfig.Collections {
				names = append(names, col.Name)
			}
			current, err := client.Import(ctx, names...)
			if err != nil {
				return goerr.Wrap(err, "failed to import current indexes")
			}
			diff, err := client.DiffConfigs(current)
			if err != nil {
				return goerr.Wrap(err, "failed to create migration plan")
			}

			steps := migrationSteps(diff)
			if len(steps) == 0 {
				logger.Info("Indexes are up to date")
				return nil
			}

			destructive := 0
			for _, step := range steps {
				logger.Info("Migration step",
					"collection", step.Collection,
					"operation", step.Operation,
					"fields", step.Fields,
					"destructive", step.Destructive)
				if step.Destructive {
					destructive++
				}
			}

			if dryRun {
				return nil
			}
			if destructive > 0 && !allowDestructive {
				return goerr.New("migration plan drops indexes; rerun with --allow-destructive",
					goerr.V("destructive_steps", destructive))
			}

			if err := client.Migrate(ctx); err != nil {
				return goerr.Wrap(err, "failed to apply migrations")
			}
			logger.Info("Migrations applied", "steps", len(steps))

			return nil
		},
	}
}

type migrationStep struct {
	Collection  string
	Operation   fireconf.DiffAction
	Fields      string
	Destructive bool
}

// migrationSteps flattens a diff into one step per index created or dropped
func migrationSteps(diff *fireconf.DiffResult) []migrationStep {
	var steps []migrationStep
	for _, col := range diff.Collections {
		for _, idx := range col.IndexesToAdd {
			steps = append(steps, migrationStep{
				Collection: col.Name,
				Operation:  fireconf.ActionAdd,
				Fields:     indexFields(idx),
			})
		}
		for _, idx := range col.IndexesToDelete {
			steps = append(steps, migrationStep{
				Collection:  col.Name,
				Operation:   fireconf.ActionDelete,
				Fields:      indexFields(idx),
				Destructive: true,
			})
		}
	}
	return steps
}

func indexFields(idx fireconf.Index) string {
	parts := make([]string, 0, len(idx.Fields))
	for _, f := range idx.Fields {
		parts = append(parts, f.Path+" "+string(f.Order))
	}
	return strings.Join(parts, ", ")
}

// getIndexConfig returns the composite indexes behind the owner and field
// listings and the owner-scoped vector scan
func getIndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.CollectionName(prefix, firestore.DiagnosisCollection),
				Indexes: []fireconf.Index{
					// ListByOwner: OwnerID ASC, CreatedAt DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "OwnerID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderDescending},
						},
					},
					// ListByField: FieldID ASC, CreatedAt DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "FieldID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderDescending},
						},
					},
				},
			},
			{
				Name: firestore.CollectionName(prefix, firestore.VectorCollection),
				Indexes: []fireconf.Index{
					// ListVectorsByOwner: OwnerID ASC, CreatedAt ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "OwnerID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
