package tachyon

import (
	"context"
	"github.com/pkg/errors"
	"golang.org/x/net/ipv4"
	"net"
	"strconv"
	"syscall"
)

// DeliveryPolicy shapes how a Communicator's sockets are opened and where outbound traffic is addressed. The set of
// policies is closed: Broadcast and Multicast.
//
type DeliveryPolicy interface {
	configureReceiver(port uint16, addresses []net.IP, config *Config) (*net.UDPConn, error)
	configureSender(port uint16, addresses []net.IP, config *Config) (*net.UDPConn, *net.UDPAddr, error)
	String() string
}

// Broadcast delivers to every host on the subnet. Receivers bind the wildcard address with address reuse; senders
// enable SO_BROADCAST and address the limited broadcast address, or Address when set (directed broadcast).
//
type Broadcast struct {
	Address net.IP
}

func (self Broadcast) configureReceiver(port uint16, addresses []net.IP, config *Config) (*net.UDPConn, error) {
	if len(addresses) != 0 {
		return nil, errors.Errorf("broadcast receiver takes no addresses, got [%d]", len(addresses))
	}
	return listen(net.JoinHostPort("", strconv.Itoa(int(port))), reuseAddress, config)
}

func (self Broadcast) configureSender(port uint16, addresses []net.IP, config *Config) (*net.UDPConn, *net.UDPAddr, error) {
	if len(addresses) != 0 {
		return nil, nil, errors.Errorf("broadcast sender takes no addresses, got [%d]", len(addresses))
	}
	conn, err := listen(":0", enableBroadcast, config)
	if err != nil {
		return nil, nil, err
	}
	target := self.Address
	if target == nil {
		target = net.IPv4bcast
	}
	return conn, &net.UDPAddr{IP: target, Port: int(port)}, nil
}

func (self Broadcast) String() string {
	return "broadcast"
}

// Multicast delivers to the members of a group. Receivers take (listenAddress, groupAddress), join the group and
// bind (listenAddress, port); senders take (groupAddress) and address (groupAddress, port) without joining.
//
type Multicast struct{}

func (self Multicast) configureReceiver(port uint16, addresses []net.IP, config *Config) (*net.UDPConn, error) {
	if len(addresses) != 2 {
		return nil, errors.Errorf("multicast receiver requires listen and group addresses, got [%d]", len(addresses))
	}
	listenAddress, groupAddress := addresses[0], addresses[1]
	ifi, err := config.multicastInterface()
	if err != nil {
		return nil, err
	}
	conn, err := listen(net.JoinHostPort(listenAddress.String(), strconv.Itoa(int(port))), reuseAddress, config)
	if err != nil {
		return nil, err
	}
	if err := ipv4.NewPacketConn(conn).JoinGroup(ifi, &net.UDPAddr{IP: groupAddress}); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "join group [%s]", groupAddress)
	}
	return conn, nil
}

func (self Multicast) configureSender(port uint16, addresses []net.IP, config *Config) (*net.UDPConn, *net.UDPAddr, error) {
	if len(addresses) != 1 {
		return nil, nil, errors.Errorf("multicast sender requires a group address, got [%d]", len(addresses))
	}
	ifi, err := config.multicastInterface()
	if err != nil {
		return nil, nil, err
	}
	conn, err := listen(":0", nil, config)
	if err != nil {
		return nil, nil, err
	}
	p := ipv4.NewPacketConn(conn)
	if err := p.SetMulticastTTL(config.MulticastTtl); err != nil {
		_ = conn.Close()
		return nil, nil, errors.Wrap(err, "multicast ttl")
	}
	if err := p.SetMulticastLoopback(config.MulticastLoopback); err != nil {
		_ = conn.Close()
		return nil, nil, errors.Wrap(err, "multicast loopback")
	}
	if ifi != nil {
		if err := p.SetMulticastInterface(ifi); err != nil {
			_ = conn.Close()
			return nil, nil, errors.Wrapf(err, "multicast interface [%s]", ifi.Name)
		}
	}
	return conn, &net.UDPAddr{IP: addresses[0], Port: int(port)}, nil
}

func (self Multicast) String() string {
	return "multicast"
}

func listen(address string, control func(network, address string, c syscall.RawConn) error, config *Config) (*net.UDPConn, error) {
	lc := net.ListenConfig{Control: control}
	pc, err := lc.ListenPacket(context.Background(), "udp4", address)
	if err != nil {
		return nil, errors.Wrapf(err, "listen [%s]", address)
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		_ = pc.Close()
		return nil, errors.Errorf("unexpected packet conn type [%T]", pc)
	}
	if config.RxBufferSz > 0 {
		if err := conn.SetReadBuffer(config.RxBufferSz); err != nil {
			_ = conn.Close()
			return nil, errors.Wrap(err, "rx buffer size")
		}
	}
	if config.TxBufferSz > 0 {
		if err := conn.SetWriteBuffer(config.TxBufferSz); err != nil {
			_ = conn.Close()
			return nil, errors.Wrap(err, "tx buffer size")
		}
	}
	return conn, nil
}
