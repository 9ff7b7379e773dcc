package logger

import (
	"testing"

	"TSDB/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	devel, err := New(config.Config{DeploymentMode: "devel"})
	require.NoError(t, err)
	assert.True(t, devel.Core().Enabled(zapcore.DebugLevel))

	production, err := New(config.Config{DeploymentMode: "production"})
	require.NoError(t, err)
	assert.False(t, production.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, production.Core().Enabled(zapcore.InfoLevel))
}
