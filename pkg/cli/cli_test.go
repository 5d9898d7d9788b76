package cli_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/cropai/cropai/pkg/cli"
	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/cropai/cropai/pkg/domain/types"
	"github.com/cropai/cropai/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
)

func TestPrintSimilar(t *testing.T) {
	color.NoColor = true

	t.Run("no results", func(t *testing.T) {
		var buf bytes.Buffer
		cli.PrintSimilar(&buf, "leaf spots", nil)
		gt.String(t, buf.String()).Contains(`Similar diagnoses for "leaf spots"`)
		gt.String(t, buf.String()).Contains("no diagnoses found")
	})

	t.Run("ranked results", func(t *testing.T) {
		var buf bytes.Buffer
		cli.PrintSimilar(&buf, "leaf spots", []*usecase.SimilarDiagnosis{
			{
				Record: &model.DiagnosisRecord{
					ID:        "d-1",
					OwnerID:   "u1",
					CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
					Diagnosis: model.DiagnosisPayload{
						Issue:           "Early Blight",
						Recommendations: []string{"Apply fungicide"},
					},
					Feedback: types.FeedbackNegative,
				},
				Similarity: 0.8123,
			},
		})

		out := buf.String()
		gt.String(t, out).Contains(" 1. Early Blight  0.812")
		gt.String(t, out).Contains("id=d-1 owner=u1 created=2024-05-01 09:30")
		gt.String(t, out).Contains("- Apply fungicide")
		gt.String(t, out).Contains("feedback: negative")
	})
}

func TestGetIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig("")
	gt.Array(t, cfg.Collections).Length(2)
	gt.Value(t, cfg.Collections[0].Name).Equal("diagnoses")
	gt.Array(t, cfg.Collections[0].Indexes).Length(2)
	gt.Value(t, cfg.Collections[1].Name).Equal("diagnosis_vectors")

	prefixed := cli.GetIndexConfig("staging")
	gt.Value(t, prefixed.Collections[0].Name).Equal("staging_diagnoses")
	gt.Value(t, prefixed.Collections[1].Name).Equal("staging_diagnosis_vectors")
}

func TestMigrationSteps(t *testing.T) {
	t.Run("no changes", func(t *testing.T) {
		gt.Array(t, cli.MigrationSteps(&fireconf.DiffResult{})).Length(0)
	})

	t.Run("adds and drops", func(t *testing.T) {
		diff := &fireconf.DiffResult{
			Collections: []fireconf.CollectionDiff{
				{
					Name:   "diagnoses",
					Action: fireconf.ActionModify,
					IndexesToAdd: []fireconf.Index{
						{Fields: []fireconf.IndexField{
							{Path: "OwnerID", Order: fireconf.OrderAscending},
							{Path: "CreatedAt", Order: fireconf.OrderDescending},
						}},
					},
					IndexesToDelete: []fireconf.Index{
						{Fields: []fireconf.IndexField{
							{Path: "CropType", Order: fireconf.OrderAscending},
						}},
					},
				},
			},
		}

		steps := cli.MigrationSteps(diff)
		gt.Array(t, steps).Length(2).Required()
		gt.Value(t, steps[0].Operation).Equal(fireconf.ActionAdd)
		gt.Value(t, steps[0].Fields).Equal("OwnerID ASCENDING, CreatedAt DESCENDING")
		gt.Bool(t, steps[0].Destructive).False()
		gt.Value(t, steps[1].Collection).Equal("diagnoses")
		gt.Value(t, steps[1].Operation).Equal(fireconf.ActionDelete)
		gt.Bool(t, steps[1].Destructive).True()
	})
}

func TestRun(t *testing.T) {
	t.Run("reindex on empty memory backend", func(t *testing.T) {
		err := cli.Run(t.Context(), []string{"cropai", "reindex", "--repository-backend", "memory"}, "test")
		gt.NoError(t, err)
	})

	t.Run("similar requires a query", func(t *testing.T) {
		err := cli.Run(t.Context(), []string{"cropai", "similar", "--repository-backend", "memory"}, "test")
		gt.Value(t, err).NotNil()
	})

	t.Run("similar on empty memory backend", func(t *testing.T) {
		err := cli.Run(t.Context(), []string{"cropai", "similar", "--repository-backend", "memory", "--owner", "u1", "leaf", "spots"}, "test")
		gt.NoError(t, err)
	})
}
