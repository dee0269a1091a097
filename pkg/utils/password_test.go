package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPassword("hunter2", h))
	assert.False(t, CheckPassword("hunter3", h))
	assert.False(t, CheckPassword("hunter2", ""))
}
