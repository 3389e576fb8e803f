package tachyon

import (
	"fmt"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"net"
	"sync"
)

type datagramHandler func(peer *net.UDPAddr, data []byte)

// socket is the state shared by receiver and sender: one UDP socket, its datagram buffer and a receive loop that
// keeps exactly one read outstanding.
//
type socket struct {
	id      string
	conn    *net.UDPConn
	dg      *datagram
	r       *reactor
	ii      InstrumentInstance
	log     *logrus.Entry
	lock    sync.Mutex
	handler datagramHandler
	armed   bool
	closer  sync.Once
	err     error
}

func newSocket(role string, conn *net.UDPConn, r *reactor, config *Config) (*socket, error) {
	addr := conn.LocalAddr().(*net.UDPAddr)
	id := fmt.Sprintf("%s_%s", role, addr)
	s := &socket{
		id:   id,
		conn: conn,
		dg:   newDatagram(config.MaxDatagramSz),
		r:    r,
		ii:   config.GetInstrument().NewInstance(id, addr),
		log:  pfxlog.ContextLogger(id),
	}
	if err := r.register(s); err != nil {
		return nil, err
	}
	s.ii.Bound(addr)
	s.log.Debugf("bound [%s]", addr)
	return s, nil
}

// arm installs handler for every subsequent datagram, starting the receive loop on first use. Arming again replaces
// the handler; it never adds a second outstanding read.
//
func (self *socket) arm(handler datagramHandler) {
	self.lock.Lock()
	defer self.lock.Unlock()

	self.handler = handler
	if !self.armed {
		self.armed = self.r.spawn(self.receiveLoop)
	}
}

func (self *socket) currentHandler() datagramHandler {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.handler
}

func (self *socket) receiveLoop() {
	self.log.Debug("started")
	defer self.log.Debug("exited")

	for {
		n, _, flags, peer, err := self.conn.ReadMsgUDP(self.dg.data, nil)
		if err != nil {
			if !self.r.isStopped() && !errors.Is(err, net.ErrClosed) {
				self.ii.ReadError(err)
				self.log.Errorf("read error, receive loop stopping (%v)", err)
			}
			return
		}
		if flags&msgTruncated != 0 {
			self.ii.Truncated(peer, n)
			self.log.Warnf("dropping datagram from [%s], larger than [%d] bytes", peer, self.dg.sz)
			continue
		}
		self.dg.uz = uint32(n)
		self.ii.DatagramRx(peer, n)

		if !self.r.submit(func() { self.deliver(peer) }) {
			return
		}
	}
}

func (self *socket) deliver(peer *net.UDPAddr) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("handler panic (%v)", r)
			self.ii.HandlerError(peer, err)
			self.log.Errorf("recovered handler for [%s] (%v)", peer, err)
		}
	}()
	if handler := self.currentHandler(); handler != nil {
		handler(peer, self.dg.bytes())
	}
}

// write is fire-and-forget; failures are reported to the instrument and dropped.
//
func (self *socket) write(data []byte, peer *net.UDPAddr) {
	n, err := self.conn.WriteToUDP(data, peer)
	if err != nil {
		self.ii.WriteError(peer, err)
		self.log.Errorf("write to [%s] failed (%v)", peer, err)
		return
	}
	self.ii.DatagramTx(peer, n)
}

func (self *socket) localAddr() *net.UDPAddr {
	return self.conn.LocalAddr().(*net.UDPAddr)
}

// Close may be called by both the owning role and the reactor; only the first call reaches the connection.
//
func (self *socket) Close() error {
	self.closer.Do(func() {
		self.err = self.conn.Close()
		self.ii.Shutdown()
	})
	return self.err
}
