package tachyon

import (
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net"
	"os"
	"testing"
)

func TestTraceInstrumentWire(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	i, err := NewTraceInstrument(map[string]interface{}{"wire": true})
	require.NoError(t, err)

	ii := i.NewInstance("receiver_0.0.0.0:9999", nil)
	ii.DatagramRx(&net.UDPAddr{IP: loopbackIP, Port: 5000}, 32)

	entries := socketEntries(hook, "receiver_0.0.0.0:9999")
	require.Len(t, entries, 1)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "127.0.0.1:5000")
}

func TestTraceInstrumentQuiet(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	i, err := NewTraceInstrument(map[string]interface{}{"error": false})
	require.NoError(t, err)

	ii := i.NewInstance("sender_0.0.0.0:1", nil)
	ii.DatagramTx(&net.UDPAddr{IP: loopbackIP, Port: 5000}, 32)
	ii.DecodeError(nil, os.ErrInvalid)
	ii.WriteError(nil, os.ErrInvalid)

	assert.Empty(t, socketEntries(hook, "sender_0.0.0.0:1"))
}

func socketEntries(hook *test.Hook, id string) []*logrus.Entry {
	var entries []*logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Data["socket"] == id {
			entries = append(entries, entry)
		}
	}
	return entries
}
