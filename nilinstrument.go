package tachyon

import "net"

type nilInstrument struct{}

func NewNilInstrument() Instrument {
	return &nilInstrument{}
}

func (self *nilInstrument) NewInstance(_ string, _ *net.UDPAddr) InstrumentInstance {
	return &nilInstrumentInstance{}
}

type nilInstrumentInstance struct{}

/*
 * socket
 */
func (self *nilInstrumentInstance) Bound(*net.UDPAddr) {}

/*
 * wire
 */
func (self *nilInstrumentInstance) DatagramRx(*net.UDPAddr, int)   {}
func (self *nilInstrumentInstance) DatagramTx(*net.UDPAddr, int)   {}
func (self *nilInstrumentInstance) Truncated(*net.UDPAddr, int)    {}
func (self *nilInstrumentInstance) ReadError(error)                {}
func (self *nilInstrumentInstance) WriteError(*net.UDPAddr, error) {}

/*
 * payload
 */
func (self *nilInstrumentInstance) DecodeError(*net.UDPAddr, error)  {}
func (self *nilInstrumentInstance) EncodeError(*net.UDPAddr, error)  {}
func (self *nilInstrumentInstance) HandlerError(*net.UDPAddr, error) {}

/*
 * instrument lifecycle
 */
func (self *nilInstrumentInstance) Shutdown() {}
