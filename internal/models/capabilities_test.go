package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitiesValueScan(t *testing.T) {
	original := Capabilities{
		Tasks:    []string{"text-generation", "embedding"},
		Features: []string{"chat", "function-calling"},
	}

	value, err := original.Value()
	require.NoError(t, err)

	var decoded Capabilities
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, original, decoded)
}

func TestCapabilitiesScanNull(t *testing.T) {
	c := Capabilities{Tasks: []string{"stale"}}
	require.NoError(t, c.Scan(nil))
	assert.True(t, c.IsZero())
}

func TestCapabilitiesScanRejectsNonBytes(t *testing.T) {
	var c Capabilities
	assert.Error(t, c.Scan("not bytes"))
}

func TestDefaultCapabilities(t *testing.T) {
	def := DefaultCapabilities()
	assert.Equal(t, []string{DefaultTask}, def.Tasks)
	assert.Equal(t, []string{DefaultFeature}, def.Features)
	assert.False(t, def.IsZero())
}
