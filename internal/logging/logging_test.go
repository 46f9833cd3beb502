package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBeforeInitializeIsNoop(t *testing.T) {
	l := Get(CategoryValidate)
	require.NotNil(t, l)
	// A no-op logger must not panic.
	l.Info("ignored")
}

func TestGetReturnsSameLoggerPerCategory(t *testing.T) {
	require.NoError(t, Initialize(false))

	a := Get(CategoryBatch)
	b := Get(CategoryBatch)
	assert.Same(t, a, b)
	assert.NotSame(t, a, Get(CategoryAPI))
}

func TestInitializeResetsCachedLoggers(t *testing.T) {
	require.NoError(t, Initialize(false))
	before := Get(CategoryRepair)

	require.NoError(t, Initialize(true))
	after := Get(CategoryRepair)
	assert.NotSame(t, before, after)
}
