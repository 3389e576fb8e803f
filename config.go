package tachyon

import (
	"github.com/openziti/tachyon/cf"
	"github.com/pkg/errors"
	"net"
)

type Config struct {
	MaxDatagramSz      int    `cf:"max_datagram_sz"`
	RxBufferSz         int    `cf:"rx_buffer_sz"`
	TxBufferSz         int    `cf:"tx_buffer_sz"`
	MulticastTtl       int    `cf:"multicast_ttl"`
	MulticastLoopback  bool   `cf:"multicast_loopback"`
	MulticastInterface string `cf:"multicast_interface"`
	Instrument         string `cf:"instrument"`
	i                  Instrument
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxDatagramSz:     4 * 1024,
		MulticastTtl:      1,
		MulticastLoopback: true,
		Instrument:        "nil",
	}
}

// Load binds data onto the config and constructs the selected instrument. The instrument's own settings are read from
// the nested "instrument_config" map.
//
func (self *Config) Load(data map[string]interface{}) error {
	if err := cf.Load(data, self); err != nil {
		return errors.Wrap(err, "unable to load config")
	}
	if self.MaxDatagramSz < 1 || self.MaxDatagramSz > 65535 {
		return errors.Errorf("invalid max_datagram_sz [%d]", self.MaxDatagramSz)
	}
	var instrumentConfig map[string]interface{}
	if v, found := data["instrument_config"]; found {
		ic, ok := cf.Section(v)
		if !ok {
			return errors.New("invalid 'instrument_config' value")
		}
		instrumentConfig = ic
	}
	i, err := NewInstrument(self.Instrument, instrumentConfig)
	if err != nil {
		return errors.Wrap(err, "unable to create instrument")
	}
	self.i = i
	return nil
}

func (self *Config) SetInstrument(i Instrument) {
	self.i = i
}

func (self *Config) GetInstrument() Instrument {
	if self.i == nil {
		self.i = NewNilInstrument()
	}
	return self.i
}

func (self *Config) Dump() string {
	return cf.Dump("config", self)
}

func (self *Config) multicastInterface() (*net.Interface, error) {
	if self.MulticastInterface == "" {
		return nil, nil
	}
	ifi, err := net.InterfaceByName(self.MulticastInterface)
	if err != nil {
		return nil, errors.Wrapf(err, "multicast interface [%s]", self.MulticastInterface)
	}
	return ifi, nil
}
