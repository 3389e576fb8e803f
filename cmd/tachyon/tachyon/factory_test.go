package tachyon

import (
	"github.com/openziti/tachyon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor("broadcast", "")
	require.NoError(t, err)
	assert.Equal(t, tachyon.Broadcast{}, p)

	p, err = PolicyFor("broadcast", "10.0.0.255")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.255", p.(tachyon.Broadcast).Address.String())

	p, err = PolicyFor("multicast", "")
	require.NoError(t, err)
	assert.Equal(t, tachyon.Multicast{}, p)

	_, err = PolicyFor("multicast", "10.0.0.255")
	assert.Error(t, err)

	_, err = PolicyFor("anycast", "")
	assert.Error(t, err)

	_, err = PolicyFor("broadcast", "not-an-address")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tachyon.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_datagram_sz: 1500
multicast_ttl: 8
multicast_loopback: false
instrument: trace
instrument_config:
  wire: true
`), os.ModePerm))

	configPath = path
	defer func() { configPath = "" }()

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 1500, config.MaxDatagramSz)
	assert.Equal(t, 8, config.MulticastTtl)
	assert.False(t, config.MulticastLoopback)
	assert.Equal(t, "trace", config.Instrument)
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, tachyon.NewDefaultConfig().MaxDatagramSz, config.MaxDatagramSz)
}

func TestLoadConfigMissing(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "missing.yml")
	defer func() { configPath = "" }()

	_, err := LoadConfig()
	assert.Error(t, err)
}
