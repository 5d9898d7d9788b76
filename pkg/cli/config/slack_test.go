package config_test

import (
	"errors"
	"testing"

	"github.com/cropai/cropai/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func TestSlack_Configure(t *testing.T) {
	t.Run("returns nil service when nothing is set", func(t *testing.T) {
		cfg := config.NewSlackForTest("", "", "")
		svc, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, svc).Nil()
		gt.Bool(t, cfg.IsConfigured()).False()
	})

	t.Run("requires a channel with the token", func(t *testing.T) {
		cfg := config.NewSlackForTest("xoxb-test", "", "")
		_, err := cfg.Configure()
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})

	t.Run("requires a token with the channel", func(t *testing.T) {
		cfg := config.NewSlackForTest("", "C0123456", "")
		_, err := cfg.Configure()
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})

	t.Run("creates service when fully configured", func(t *testing.T) {
		cfg := config.NewSlackForTest("xoxb-test", "C0123456", "http://localhost:0/api/")
		svc, err := cfg.Configure()
		gt.NoError(t, err)
		gt.Value(t, svc).NotNil()
		gt.Value(t, cfg.ChannelID()).Equal("C0123456")
	})

	t.Run("returns flags", func(t *testing.T) {
		cfg := config.NewSlackForTest("", "", "")
		gt.Array(t, cfg.Flags()).Length(3)
	})
}
