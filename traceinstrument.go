package tachyon

import (
	"github.com/openziti/tachyon/cf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"net"
)

type traceInstrument struct {
	config *traceInstrumentConfig
}

type traceInstrumentConfig struct {
	Wire  bool `cf:"wire"`
	Error bool `cf:"error"`
}

type traceInstrumentInstance struct {
	id  string
	log *logrus.Entry
	i   *traceInstrument
}

func NewTraceInstrument(config map[string]interface{}) (Instrument, error) {
	i := &traceInstrument{
		config: &traceInstrumentConfig{Error: true},
	}
	if config != nil {
		if err := cf.Load(config, i.config); err != nil {
			return nil, errors.Wrap(err, "unable to load config")
		}
	}
	logrus.Info(cf.Dump("trace", i.config))
	return i, nil
}

func (self *traceInstrument) NewInstance(id string, _ *net.UDPAddr) InstrumentInstance {
	return &traceInstrumentInstance{
		id:  id,
		log: logrus.WithField("socket", id),
		i:   self,
	}
}

/*
 * socket
 */
func (self *traceInstrumentInstance) Bound(addr *net.UDPAddr) {
	self.log.Infof("bound [%s]", addr)
}

/*
 * wire
 */
func (self *traceInstrumentInstance) DatagramRx(peer *net.UDPAddr, sz int) {
	if self.i.config.Wire {
		self.log.Infof("<- [%d] <- [%s]", sz, peer)
	}
}

func (self *traceInstrumentInstance) DatagramTx(peer *net.UDPAddr, sz int) {
	if self.i.config.Wire {
		self.log.Infof("-> [%d] -> [%s]", sz, peer)
	}
}

func (self *traceInstrumentInstance) Truncated(peer *net.UDPAddr, sz int) {
	if self.i.config.Error {
		self.log.Warnf("truncated datagram [%d] from [%s]", sz, peer)
	}
}

func (self *traceInstrumentInstance) ReadError(err error) {
	if self.i.config.Error {
		self.log.Errorf("read error (%v)", err)
	}
}

func (self *traceInstrumentInstance) WriteError(peer *net.UDPAddr, err error) {
	if self.i.config.Error {
		self.log.Errorf("write error, peer [%s] (%v)", peer, err)
	}
}

/*
 * payload
 */
func (self *traceInstrumentInstance) DecodeError(peer *net.UDPAddr, err error) {
	if self.i.config.Error {
		self.log.Errorf("decode error, peer [%s] (%v)", peer, err)
	}
}

func (self *traceInstrumentInstance) EncodeError(peer *net.UDPAddr, err error) {
	if self.i.config.Error {
		self.log.Errorf("encode error, peer [%s] (%v)", peer, err)
	}
}

func (self *traceInstrumentInstance) HandlerError(peer *net.UDPAddr, err error) {
	if self.i.config.Error {
		self.log.Errorf("handler error, peer [%s] (%v)", peer, err)
	}
}

/*
 * instrument lifecycle
 */
func (self *traceInstrumentInstance) Shutdown() {
	self.log.Debug("shutdown")
}
