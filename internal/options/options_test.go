package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type config struct {
	depth int
	name  string
}

func TestApply(t *testing.T) {
	cfg := &config{}
	err := Apply(cfg,
		NoError(func(c *config) { c.depth = 8 }),
		nil,
		New(func(c *config) error {
			c.name = "x"
			return nil
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, &config{depth: 8, name: "x"}, cfg)
}

func TestApplyStopsAtError(t *testing.T) {
	boom := errors.New("boom")
	cfg := &config{}
	err := Apply(cfg,
		New(func(*config) error { return boom }),
		NoError(func(c *config) { c.depth = 1 }),
	)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, cfg.depth)
}
