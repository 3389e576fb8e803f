package tachyon

import (
	"github.com/openziti/tachyon"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"net"
	"os"
)

// PolicyFor maps a --mode value onto a DeliveryPolicy. A non-empty address selects directed broadcast.
//
func PolicyFor(mode, address string) (tachyon.DeliveryPolicy, error) {
	switch mode {
	case "broadcast":
		if address == "" {
			return tachyon.Broadcast{}, nil
		}
		ip, err := ParseIPv4(address)
		if err != nil {
			return nil, err
		}
		return tachyon.Broadcast{Address: ip}, nil

	case "multicast":
		if address != "" {
			return nil, errors.New("multicast mode takes a group, not a broadcast address")
		}
		return tachyon.Multicast{}, nil

	default:
		return nil, errors.Errorf("unsupported mode [%s]", mode)
	}
}

// LoadConfig builds the communicator config, overlaying the --config yaml when one was given.
//
func LoadConfig() (*tachyon.Config, error) {
	config := tachyon.NewDefaultConfig()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read config file [%s]", configPath)
		}
		dataMap := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &dataMap); err != nil {
			return nil, errors.Wrapf(err, "unable to unmarshal config data [%s]", configPath)
		}
		if err := config.Load(dataMap); err != nil {
			return nil, errors.Wrapf(err, "unable to load config [%s]", configPath)
		}
	}
	if configDump {
		logrus.Info(config.Dump())
	}
	return config, nil
}

// WriteMetrics flushes the samples of an instrument that keeps them.
//
func WriteMetrics(config *tachyon.Config) {
	if w, ok := config.GetInstrument().(interface{ WriteAllSamples() error }); ok {
		if err := w.WriteAllSamples(); err != nil {
			logrus.Errorf("error writing metrics (%v)", err)
		}
	}
}

func ParseIPv4(address string) (net.IP, error) {
	ip := net.ParseIP(address)
	if ip == nil || ip.To4() == nil {
		return nil, errors.Errorf("invalid ipv4 address [%s]", address)
	}
	return ip.To4(), nil
}
