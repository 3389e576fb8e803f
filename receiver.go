package tachyon

import (
	"github.com/pkg/errors"
	"net"
)

// receiver is the inbound role: a socket configured by the policy for listening, replying to whoever sent a datagram.
//
type receiver struct {
	*socket
	codec Codec
}

func newReceiver(r *reactor, policy DeliveryPolicy, port uint16, addresses []net.IP, config *Config, codec Codec) (*receiver, error) {
	conn, err := policy.configureReceiver(port, addresses, config)
	if err != nil {
		return nil, errors.Wrapf(err, "configure %s receiver", policy)
	}
	s, err := newSocket("receiver", conn, r, config)
	if err != nil {
		return nil, err
	}
	return &receiver{socket: s, codec: codec}, nil
}

func (self *receiver) receiveLoop(handler datagramHandler) {
	self.arm(handler)
}

// sendTo encodes payload and sends it to peer. Only encoding failures are returned.
//
func (self *receiver) sendTo(payload interface{}, peer *net.UDPAddr) error {
	data, err := self.codec.Marshal(payload)
	if err != nil {
		self.ii.EncodeError(peer, err)
		return err
	}
	self.write(data, peer)
	return nil
}
