package probe

import (
	"net"
	"os"
	"time"
)

// probe is the request distributed by query. Id and Seq let the querier discard replies to earlier probes.
//
type probe struct {
	Id   string `msgpack:"id"`
	Seq  int32  `msgpack:"seq"`
	Sent int64  `msgpack:"sent"`
	Body string `msgpack:"body"`
}

type probeReply struct {
	Id        string `msgpack:"id"`
	Seq       int32  `msgpack:"seq"`
	Sent      int64  `msgpack:"sent"`
	Responder string `msgpack:"responder"`
	Body      string `msgpack:"body"`
}

func newProbeReply(p probe, responder string) probeReply {
	return probeReply{
		Id:        p.Id,
		Seq:       p.Seq,
		Sent:      p.Sent,
		Responder: responder,
		Body:      p.Body,
	}
}

func (self probeReply) rtt(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, self.Sent))
}

func responderName(addr *net.UDPAddr) string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return addr.String()
	}
	return hostname
}
