package probe

import (
	"github.com/openziti/tachyon"
	cmd "github.com/openziti/tachyon/cmd/tachyon/tachyon"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"net"
	"os"
	"os/signal"
	"syscall"
)

func init() {
	serveCmd.Flags().Uint16VarP(&servePort, "port", "P", 9999, "Listen port")
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "0.0.0.0", "Listen address (multicast)")
	serveCmd.Flags().StringVarP(&serveGroup, "group", "g", "239.255.0.1", "Group address (multicast)")
	cmd.RootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer probes until interrupted",
	Args:  cobra.NoArgs,
	Run:   serve,
}
var servePort uint16
var serveListen string
var serveGroup string

func serve(_ *cobra.Command, _ []string) {
	policy, err := cmd.PolicyFor(cmd.SelectedMode, "")
	if err != nil {
		logrus.Fatalf("error selecting policy (%v)", err)
	}
	config, err := cmd.LoadConfig()
	if err != nil {
		logrus.Fatalf("error loading config (%v)", err)
	}

	var addresses []net.IP
	if _, ok := policy.(tachyon.Multicast); ok {
		listen, err := cmd.ParseIPv4(serveListen)
		if err != nil {
			logrus.Fatalf("error parsing listen address (%v)", err)
		}
		group, err := cmd.ParseIPv4(serveGroup)
		if err != nil {
			logrus.Fatalf("error parsing group address (%v)", err)
		}
		addresses = []net.IP{listen, group}
	}

	c := tachyon.NewCommunicator(policy, config).Inbound(servePort, addresses...)
	if err := c.Err(); err != nil {
		logrus.Fatalf("error configuring inbound (%v)", err)
	}
	responder := responderName(c.InboundAddr())
	tachyon.Process(c, func(peer *net.UDPAddr, p probe) (probeReply, error) {
		logrus.Debugf("probe #%d from [%s]", p.Seq, peer)
		return newProbeReply(p, responder), nil
	})

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		logrus.Info("stopping")
		c.Stop()
	}()

	logrus.Infof("serving %s probes on [%s]", policy, c.InboundAddr())
	if err := c.Dispatch(); err != nil {
		logrus.Fatalf("error dispatching (%v)", err)
	}
	cmd.WriteMetrics(config)
}
