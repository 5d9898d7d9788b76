package config_test

import (
	"testing"

	"github.com/cropai/cropai/pkg/cli/config"
	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestGemini_Configure(t *testing.T) {
	t.Run("falls back to canned analysis without project", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "us-central1")
		gt.Bool(t, cfg.IsEnabled()).False()

		svc, err := cfg.Configure(t.Context())
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()

		result, err := svc.Analyze(t.Context(), model.CropConditions{CropType: "tomato"}, "")
		gt.NoError(t, err).Required()
		gt.Bool(t, result.IsMock).True()
	})

	t.Run("returns flags", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "")
		gt.Array(t, cfg.Flags()).Length(2)
	})
}
