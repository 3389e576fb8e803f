package probe

import (
	"github.com/openziti/tachyon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net"
	"testing"
	"time"
)

func TestProbeRoundTrip(t *testing.T) {
	server := tachyon.NewCommunicator(tachyon.Broadcast{}, nil).Inbound(0)
	require.NoError(t, server.Err())
	tachyon.Process(server, func(_ *net.UDPAddr, p probe) (probeReply, error) {
		return newProbeReply(p, "test"), nil
	})
	done := make(chan error, 1)
	go func() { done <- server.Dispatch() }()
	defer func() {
		server.Stop()
		<-done
	}()

	sent := probe{Id: "abc", Seq: 3, Sent: time.Now().UnixNano(), Body: "hi"}
	client := tachyon.NewCommunicator(tachyon.Broadcast{Address: net.IPv4(127, 0, 0, 1)}, nil).
		Outbound(uint16(server.InboundAddr().Port)).
		Distribute(sent)
	require.NoError(t, client.Err())

	var replies []probeReply
	require.NoError(t, tachyon.CollectN(client, 2*time.Second, 1, func(reply probeReply) {
		replies = append(replies, reply)
	}))
	require.Len(t, replies, 1)
	assert.Equal(t, "abc", replies[0].Id)
	assert.Equal(t, int32(3), replies[0].Seq)
	assert.Equal(t, "test", replies[0].Responder)
	assert.Equal(t, "hi", replies[0].Body)
	assert.GreaterOrEqual(t, replies[0].rtt(time.Now()), time.Duration(0))
}

func TestResponderName(t *testing.T) {
	assert.NotEmpty(t, responderName(&net.UDPAddr{IP: net.IPv4zero, Port: 9999}))
}
