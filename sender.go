package tachyon

import (
	"github.com/pkg/errors"
	"net"
)

// sender is the outbound role: a socket bound to the single destination computed by the policy at construction.
// Replies sent back to its local address are collected through its own receive loop.
//
type sender struct {
	*socket
	codec    Codec
	endpoint *net.UDPAddr
}

func newSender(r *reactor, policy DeliveryPolicy, port uint16, addresses []net.IP, config *Config, codec Codec) (*sender, error) {
	conn, endpoint, err := policy.configureSender(port, addresses, config)
	if err != nil {
		return nil, errors.Wrapf(err, "configure %s sender", policy)
	}
	s, err := newSocket("sender", conn, r, config)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("sending to [%s]", endpoint)
	return &sender{socket: s, codec: codec, endpoint: endpoint}, nil
}

// send encodes payload and sends it to the bound endpoint. Only encoding failures are returned.
//
func (self *sender) send(payload interface{}) error {
	data, err := self.codec.Marshal(payload)
	if err != nil {
		self.ii.EncodeError(self.endpoint, err)
		return err
	}
	self.write(data, self.endpoint)
	return nil
}

func (self *sender) receiveLoop(handler func(peer *net.UDPAddr, data []byte)) {
	self.arm(handler)
}
