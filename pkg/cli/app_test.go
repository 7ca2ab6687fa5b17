package cli

import (
	"errors"
	"testing"

	"github.com/biosentience/bioctl/pkg/data"
	"github.com/biosentience/bioctl/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	app := newApp()
	require.NotNil(t, app)
	assert.Equal(t, "bioctl", app.Name)

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t,
		[]string{"import", "samples", "validate", "analyze", "simulate", "describe", "server"},
		names)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 400, statusFor(engine.ErrUnknownTarget))
	assert.Equal(t, 400, statusFor(engine.ErrMissingParameters))
	assert.Equal(t, 400, statusFor(data.ErrSampleNotFound))
	assert.Equal(t, 500, statusFor(errors.New("boom")))
}
