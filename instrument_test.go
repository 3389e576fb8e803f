package tachyon

import (
	"net"
	"sync"
)

// recordingInstrument counts events across every instance it creates.
type recordingInstrument struct {
	lock   sync.Mutex
	counts map[string]int
}

func newRecordingInstrument() *recordingInstrument {
	return &recordingInstrument{counts: make(map[string]int)}
}

func (self *recordingInstrument) NewInstance(string, *net.UDPAddr) InstrumentInstance {
	return &recordingInstrumentInstance{self}
}

func (self *recordingInstrument) count(event string) int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.counts[event]
}

func (self *recordingInstrument) record(event string) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.counts[event]++
}

type recordingInstrumentInstance struct {
	i *recordingInstrument
}

func (self *recordingInstrumentInstance) Bound(*net.UDPAddr)               { self.i.record("bound") }
func (self *recordingInstrumentInstance) DatagramRx(*net.UDPAddr, int)     { self.i.record("rx") }
func (self *recordingInstrumentInstance) DatagramTx(*net.UDPAddr, int)     { self.i.record("tx") }
func (self *recordingInstrumentInstance) Truncated(*net.UDPAddr, int)      { self.i.record("truncated") }
func (self *recordingInstrumentInstance) ReadError(error)                  { self.i.record("read_error") }
func (self *recordingInstrumentInstance) WriteError(*net.UDPAddr, error)   { self.i.record("write_error") }
func (self *recordingInstrumentInstance) DecodeError(*net.UDPAddr, error)  { self.i.record("decode_error") }
func (self *recordingInstrumentInstance) EncodeError(*net.UDPAddr, error)  { self.i.record("encode_error") }
func (self *recordingInstrumentInstance) HandlerError(*net.UDPAddr, error) { self.i.record("handler_error") }
func (self *recordingInstrumentInstance) Shutdown()                        { self.i.record("shutdown") }
