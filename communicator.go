package tachyon

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"net"
	"sync"
	"time"
)

// Communicator composes an inbound role (receiver) and an outbound role (sender) over one reactor, bound to a single
// DeliveryPolicy. Configuration calls chain; the first configuration error (bind, join, addresses) is retained, turns
// later configuration calls into no-ops and is returned by Dispatch and Collect.
//
// A Communicator must not be copied. Once its reactor has stopped it is spent; build a new one to start again.
//
//	tachyon.NewCommunicator(tachyon.Broadcast{}, nil).Inbound(9999).ProcessRaw(handler).Dispatch()
//
type Communicator struct {
	policy DeliveryPolicy
	config *Config
	r      *reactor
	lock   sync.Mutex
	codec  Codec
	rx     *receiver
	tx     *sender
	err    error
}

func NewCommunicator(policy DeliveryPolicy, config *Config) *Communicator {
	if config == nil {
		config = NewDefaultConfig()
	}
	return &Communicator{
		policy: policy,
		config: config,
		r:      newReactor(),
		codec:  NewMsgpackCodec(),
	}
}

// WithCodec replaces the default msgpack codec. It must be called before the reactor runs.
//
func (self *Communicator) WithCodec(codec Codec) *Communicator {
	self.lock.Lock()
	defer self.lock.Unlock()

	self.codec = codec
	if self.rx != nil {
		self.rx.codec = codec
	}
	if self.tx != nil {
		self.tx.codec = codec
	}
	return self
}

// Outbound configures the sender. Multicast takes the group address; broadcast takes none. Calling it again
// replaces the previous sender.
//
func (self *Communicator) Outbound(port uint16, addresses ...net.IP) *Communicator {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.err != nil {
		return self
	}
	tx, err := newSender(self.r, self.policy, port, addresses, self.config, self.codec)
	if err != nil {
		self.err = errors.Wrap(err, "outbound")
		logrus.Errorf("outbound [%d] failed (%v)", port, err)
		return self
	}
	if self.tx != nil {
		_ = self.tx.Close()
	}
	self.tx = tx
	return self
}

// Inbound configures the receiver. Multicast takes the listen and group addresses; broadcast takes none. Calling it
// again replaces the previous receiver.
//
func (self *Communicator) Inbound(port uint16, addresses ...net.IP) *Communicator {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.err != nil {
		return self
	}
	rx, err := newReceiver(self.r, self.policy, port, addresses, self.config, self.codec)
	if err != nil {
		self.err = errors.Wrap(err, "inbound")
		logrus.Errorf("inbound [%d] failed (%v)", port, err)
		return self
	}
	if self.rx != nil {
		_ = self.rx.Close()
	}
	self.rx = rx
	return self
}

// Distribute encodes payload and sends it once to the outbound destination. Without an outbound role it does nothing.
// A failed send is reported to the instrument and does not affect later calls; use DistributeErr to observe it.
//
func (self *Communicator) Distribute(payload interface{}) *Communicator {
	if err := self.DistributeErr(payload); err != nil {
		logrus.Errorf("distribute failed (%v)", err)
	}
	return self
}

// DistributeErr behaves like Distribute but returns the encoding failure of this send.
//
func (self *Communicator) DistributeErr(payload interface{}) error {
	tx := self.outbound()
	if tx == nil {
		logrus.Debug("distribute without outbound role")
		return nil
	}
	if err := tx.send(payload); err != nil {
		return errors.Wrap(err, "distribute")
	}
	return nil
}

// ProcessRaw arms the receiver with a byte-level request handler. A non-nil reply is sent back to the requesting
// peer; a nil reply sends nothing. The request slice is only valid until the handler returns.
//
func (self *Communicator) ProcessRaw(handler func(peer *net.UDPAddr, request []byte) ([]byte, error)) *Communicator {
	rx := self.inbound()
	if rx == nil {
		logrus.Debug("process without inbound role")
		return self
	}
	rx.receiveLoop(func(peer *net.UDPAddr, data []byte) {
		reply, err := handler(peer, data)
		if err != nil {
			rx.ii.HandlerError(peer, err)
			return
		}
		if reply != nil {
			rx.write(reply, peer)
		}
	})
	return self
}

// Dispatch runs the reactor until Stop is called. It blocks the caller.
//
func (self *Communicator) Dispatch() error {
	if err := self.Err(); err != nil {
		return err
	}
	return self.r.run()
}

// CollectRaw arms the sender's reply loop and runs the reactor for timeout. Without an outbound role it returns
// immediately.
//
func (self *Communicator) CollectRaw(timeout time.Duration, handler func(reply []byte)) error {
	return self.collect(timeout, func(_ *net.UDPAddr, data []byte) bool {
		handler(data)
		return false
	})
}

func (self *Communicator) collect(timeout time.Duration, handler func(peer *net.UDPAddr, data []byte) (done bool)) error {
	if err := self.Err(); err != nil {
		return err
	}
	tx := self.outbound()
	if tx == nil {
		logrus.Debug("collect without outbound role")
		return nil
	}
	tx.receiveLoop(func(peer *net.UDPAddr, data []byte) {
		if handler(peer, data) {
			self.r.Stop()
		}
	})
	deadline := time.AfterFunc(timeout, self.r.Stop)
	defer deadline.Stop()
	return self.r.run()
}

// Stop halts the reactor, ending Dispatch or Collect. Stopping is terminal.
//
func (self *Communicator) Stop() {
	self.r.Stop()
}

// Close releases the sockets of a Communicator, whether or not it ever ran.
//
func (self *Communicator) Close() error {
	self.r.close()
	return nil
}

func (self *Communicator) Err() error {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.err
}

func (self *Communicator) InboundAddr() *net.UDPAddr {
	if rx := self.inbound(); rx != nil {
		return rx.localAddr()
	}
	return nil
}

func (self *Communicator) OutboundAddr() *net.UDPAddr {
	if tx := self.outbound(); tx != nil {
		return tx.localAddr()
	}
	return nil
}

func (self *Communicator) inbound() *receiver {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.rx
}

func (self *Communicator) outbound() *sender {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.tx
}

// Process arms the receiver with a typed request handler: each datagram is decoded as Req, and the handler's response
// is encoded and sent back to the requesting peer. Decode, handler and encode failures are reported to the
// instrument and the loop continues.
//
func Process[Req, Resp any](c *Communicator, handler func(peer *net.UDPAddr, request Req) (Resp, error)) *Communicator {
	rx := c.inbound()
	if rx == nil {
		logrus.Debug("process without inbound role")
		return c
	}
	rx.receiveLoop(func(peer *net.UDPAddr, data []byte) {
		request, err := Decode[Req](rx.codec, data)
		if err != nil {
			rx.ii.DecodeError(peer, err)
			rx.log.Warnf("undecodable request from [%s] (%v)", peer, err)
			return
		}
		response, err := handler(peer, request)
		if err != nil {
			rx.ii.HandlerError(peer, err)
			return
		}
		_ = rx.sendTo(response, peer)
	})
	return c
}

// Collect delivers every reply decoded as T to handler until timeout elapses. Partial results are the normal outcome.
//
func Collect[T any](c *Communicator, timeout time.Duration, handler func(reply T)) error {
	return CollectN(c, timeout, 0, handler)
}

// CollectN behaves like Collect but returns as soon as expected replies have been delivered. expected <= 0 waits for
// the full timeout.
//
func CollectN[T any](c *Communicator, timeout time.Duration, expected int, handler func(reply T)) error {
	received := 0
	tx := c.outbound()
	return c.collect(timeout, func(peer *net.UDPAddr, data []byte) bool {
		reply, err := Decode[T](tx.codec, data)
		if err != nil {
			tx.ii.DecodeError(peer, err)
			tx.log.Warnf("undecodable reply from [%s] (%v)", peer, err)
			return false
		}
		handler(reply)
		received++
		return expected > 0 && received >= expected
	})
}
