package tachyon

import (
	"github.com/pkg/errors"
	"net"
)

// Instrument observes the sockets owned by a Communicator. A new InstrumentInstance is created for every receiver and
// sender; per-datagram failures are only ever reported here.
//
type Instrument interface {
	NewInstance(id string, addr *net.UDPAddr) InstrumentInstance
}

type InstrumentInstance interface {
	// socket
	Bound(addr *net.UDPAddr)

	// wire
	DatagramRx(peer *net.UDPAddr, sz int)
	DatagramTx(peer *net.UDPAddr, sz int)
	Truncated(peer *net.UDPAddr, sz int)
	ReadError(err error)
	WriteError(peer *net.UDPAddr, err error)

	// payload
	DecodeError(peer *net.UDPAddr, err error)
	EncodeError(peer *net.UDPAddr, err error)
	HandlerError(peer *net.UDPAddr, err error)

	// instrument lifecycle
	Shutdown()
}

func NewInstrument(name string, config map[string]interface{}) (Instrument, error) {
	switch name {
	case "", "nil":
		return NewNilInstrument(), nil
	case "trace":
		return NewTraceInstrument(config)
	case "metrics":
		return NewMetricsInstrument(config)
	default:
		return nil, errors.Errorf("unknown instrument '%s'", name)
	}
}
