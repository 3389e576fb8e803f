package ctrl

import (
	"bufio"
	"fmt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"net"
	"strings"
	"time"
)

func init() {
	clientCmd.Flags().StringVarP(&clientCommand, "command", "C", "write", "Command to send (start, stop, write, clean)")
	clientCmd.Flags().DurationVarP(&clientTimeout, "timeout", "t", 5*time.Second, "Response timeout")
	ctrlCmd.AddCommand(clientCmd)
}

var clientCmd = &cobra.Command{
	Use:   "client <path>",
	Short: "Connect to a metrics instrument controller",
	Args:  cobra.ExactArgs(1),
	Run:   client,
}
var clientCommand string
var clientTimeout time.Duration

func client(_ *cobra.Command, args []string) {
	response, err := send(args[0], clientCommand, clientTimeout)
	if err != nil {
		logrus.Fatalf("error (%v)", err)
	}
	logrus.Infof("response: %s", response)
}

// send writes a single command line to the control socket at path and returns the single line response.
//
func send(path, command string, timeout time.Duration) (string, error) {
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return "", errors.Wrapf(err, "dial [%s]", path)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	if _, err := conn.Write([]byte(fmt.Sprintf("%s\n", command))); err != nil {
		return "", errors.Wrap(err, "write")
	}
	response, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "read")
	}
	return strings.TrimSpace(response), nil
}
