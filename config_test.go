package tachyon

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	config := NewDefaultConfig()
	assert.Equal(t, 4096, config.MaxDatagramSz)
	assert.Equal(t, 1, config.MulticastTtl)
	assert.True(t, config.MulticastLoopback)
	assert.IsType(t, &nilInstrument{}, config.GetInstrument())
}

func TestConfigLoad(t *testing.T) {
	config := NewDefaultConfig()
	err := config.Load(map[string]interface{}{
		"max_datagram_sz": 1500,
		"rx_buffer_sz":    65536,
		"multicast_ttl":   4,
		"instrument":      "trace",
		"instrument_config": map[string]interface{}{
			"wire": true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1500, config.MaxDatagramSz)
	assert.Equal(t, 65536, config.RxBufferSz)
	assert.Equal(t, 4, config.MulticastTtl)

	ti, ok := config.GetInstrument().(*traceInstrument)
	require.True(t, ok)
	assert.True(t, ti.config.Wire)
	assert.True(t, ti.config.Error)
}

func TestConfigInvalidDatagramSize(t *testing.T) {
	assert.Error(t, NewDefaultConfig().Load(map[string]interface{}{"max_datagram_sz": 0}))
	assert.Error(t, NewDefaultConfig().Load(map[string]interface{}{"max_datagram_sz": 70000}))
}

func TestConfigUnknownInstrument(t *testing.T) {
	assert.Error(t, NewDefaultConfig().Load(map[string]interface{}{"instrument": "oscilloscope"}))
}

func TestConfigInvalidInstrumentConfig(t *testing.T) {
	assert.Error(t, NewDefaultConfig().Load(map[string]interface{}{"instrument": "trace", "instrument_config": "wire"}))
}

func TestConfigDump(t *testing.T) {
	out := NewDefaultConfig().Dump()
	assert.Contains(t, out, "max_datagram_sz")
	assert.Contains(t, out, "4096")
}

func TestConfigLoadInterfaceKeyedInstrumentConfig(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.Load(map[string]interface{}{
		"instrument":        "trace",
		"instrument_config": map[interface{}]interface{}{"wire": true},
	}))
	ti, ok := config.GetInstrument().(*traceInstrument)
	require.True(t, ok)
	assert.True(t, ti.config.Wire)
}
