package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateRejectsBadFrequencyRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FreqMax = cfg.FreqMin
	err := cfg.Validate()
	require.Error(t, err)
	var cerr *ConfigError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, "freq_max", cerr.Field)
}

func TestConfigValidateRejectsOutOfRangeOSDOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OSDOrder = 5
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "osd_order")
}

func TestConfigValidateRejectsZeroLDPCIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LDPCMaxIterations = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ldpc_max_iterations")
}

func TestConfigLoggerFallsBackToNopLogger(t *testing.T) {
	cfg := DefaultConfig()
	logger := cfg.logger()
	require.NotNil(t, logger)
	logger.Printf("this must not panic: %d", 1)
}
