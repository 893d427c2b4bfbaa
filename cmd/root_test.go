package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansungk/netsim-go/sim"
)

func TestApplyPositionalArgs_LegacyRingForm(t *testing.T) {
	cfg, err := applyPositionalArgs(sim.DefaultConfig(), []string{"4", "4", "3"})
	require.NoError(t, err)
	assert.Equal(t, "ring", cfg.Topology)
	assert.Equal(t, 4, cfg.Terminals)
	assert.False(t, cfg.Debug)
}

func TestApplyPositionalArgs_DebugFlagPrefix(t *testing.T) {
	cfg, err := applyPositionalArgs(sim.DefaultConfig(), []string{"debug", "4", "4", "3"})
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 4, cfg.Terminals)
}

func TestApplyPositionalArgs_RejectsMismatchedRoutersTerminals(t *testing.T) {
	_, err := applyPositionalArgs(sim.DefaultConfig(), []string{"4", "5", "3"})
	assert.Error(t, err)
}

func TestApplyPositionalArgs_RejectsNonRingRadix(t *testing.T) {
	_, err := applyPositionalArgs(sim.DefaultConfig(), []string{"4", "4", "5"})
	assert.Error(t, err)
}

func TestApplyPositionalArgs_RejectsNonNumericArgs(t *testing.T) {
	_, err := applyPositionalArgs(sim.DefaultConfig(), []string{"four", "4", "3"})
	assert.Error(t, err)
}

func TestApplyPositionalArgs_RejectsWrongArgCount(t *testing.T) {
	_, err := applyPositionalArgs(sim.DefaultConfig(), []string{"4", "4"})
	assert.Error(t, err)
}

func TestResolveRunConfig_NoArgsUsesDefaults(t *testing.T) {
	configPath, debugFlag = "", false
	defer func() { configPath, debugFlag = "", false }()

	cfg, err := resolveRunConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig().Topology, cfg.Topology)
}

func TestResolveRunConfig_DebugFlagOverridesConfig(t *testing.T) {
	configPath, debugFlag = "", true
	defer func() { configPath, debugFlag = "", false }()

	cfg, err := resolveRunConfig(nil)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}

func TestResolveRunConfig_PositionalArgsLayerOverConfig(t *testing.T) {
	configPath, debugFlag = "", false
	defer func() { configPath, debugFlag = "", false }()

	cfg, err := resolveRunConfig([]string{"6", "6", "3"})
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Terminals)
}
