package probe

import (
	"github.com/openziti/tachyon"
	cmd "github.com/openziti/tachyon/cmd/tachyon/tachyon"
	"github.com/openziti/tachyon/util"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"net"
	"time"
)

func init() {
	queryCmd.Flags().Uint16VarP(&queryPort, "port", "P", 9999, "Destination port")
	queryCmd.Flags().StringVarP(&queryGroup, "group", "g", "239.255.0.1", "Group address (multicast)")
	queryCmd.Flags().StringVarP(&queryAddress, "address", "a", "", "Directed broadcast address (broadcast)")
	queryCmd.Flags().DurationVarP(&queryTimeout, "timeout", "t", time.Second, "Collect window")
	queryCmd.Flags().IntVarP(&queryExpect, "expect", "n", 0, "Return after this many replies (0 waits for the timeout)")
	queryCmd.Flags().IntVarP(&queryCount, "count", "C", 1, "Number of probes to send")
	queryCmd.Flags().StringVarP(&queryBody, "body", "b", "", "Probe body")
	cmd.RootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Distribute probes and collect replies",
	Args:  cobra.NoArgs,
	Run:   query,
}
var queryPort uint16
var queryGroup string
var queryAddress string
var queryTimeout time.Duration
var queryExpect int
var queryCount int
var queryBody string

func query(_ *cobra.Command, _ []string) {
	policy, err := cmd.PolicyFor(cmd.SelectedMode, queryAddress)
	if err != nil {
		logrus.Fatalf("error selecting policy (%v)", err)
	}
	config, err := cmd.LoadConfig()
	if err != nil {
		logrus.Fatalf("error loading config (%v)", err)
	}

	var addresses []net.IP
	if _, ok := policy.(tachyon.Multicast); ok {
		group, err := cmd.ParseIPv4(queryGroup)
		if err != nil {
			logrus.Fatalf("error parsing group address (%v)", err)
		}
		addresses = []net.IP{group}
	}

	id := util.GenerateSessionId()
	seq := util.NewSequence(util.RandomSequence())
	for i := 0; i < queryCount; i++ {
		if err := queryOnce(policy, config, addresses, id, seq.Next()); err != nil {
			logrus.Fatalf("error querying (%v)", err)
		}
	}
	cmd.WriteMetrics(config)
}

// queryOnce runs one distribute/collect round. A Communicator is spent once collection ends, so every round gets its
// own.
//
func queryOnce(policy tachyon.DeliveryPolicy, config *tachyon.Config, addresses []net.IP, id string, seq int32) error {
	p := probe{Id: id, Seq: seq, Sent: time.Now().UnixNano(), Body: queryBody}
	c := tachyon.NewCommunicator(policy, config).Outbound(queryPort, addresses...).Distribute(p)

	replies := 0
	err := tachyon.CollectN(c, queryTimeout, queryExpect, func(reply probeReply) {
		if reply.Id != p.Id || reply.Seq != p.Seq {
			logrus.Warnf("ignoring stale reply #%d from [%s]", reply.Seq, reply.Responder)
			return
		}
		replies++
		logrus.Infof("#%d answered by [%s] in [%s]", reply.Seq, reply.Responder, reply.rtt(time.Now()))
	})
	if err != nil {
		_ = c.Close()
		return err
	}
	logrus.Infof("#%d collected [%d] replies", p.Seq, replies)
	return nil
}
