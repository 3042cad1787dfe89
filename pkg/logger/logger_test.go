package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Info("signed", zap.String("hash", "ABC"))
	Warn("fallback fee")
	Debug("encoding")

	require.Equal(t, 3, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "signed", entry.Message)
	assert.Equal(t, "ABC", entry.ContextMap()["hash"])
}

func TestInit(t *testing.T) {
	defer SetLogger(nil)

	require.NoError(t, Init("production"))
	assert.NotNil(t, Log)
	require.NoError(t, Init("development"))
	assert.NotPanics(t, func() { Info("hello") })
}
