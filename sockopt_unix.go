//go:build unix

package tachyon

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"syscall"
)

const msgTruncated = unix.MSG_TRUNC

func reuseAddress(_, _ string, c syscall.RawConn) error {
	return setSocketOption(c, unix.SO_REUSEADDR, "reuse address")
}

func enableBroadcast(_, _ string, c syscall.RawConn) error {
	return setSocketOption(c, unix.SO_BROADCAST, "broadcast")
}

func setSocketOption(c syscall.RawConn, opt int, label string) error {
	var serr error
	if err := c.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, opt, 1)
	}); err != nil {
		return errors.Wrap(err, "raw control")
	}
	if serr != nil {
		return errors.Wrapf(serr, "set %s", label)
	}
	return nil
}
