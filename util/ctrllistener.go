package util

import (
	"bufio"
	"fmt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ctrlListeners = make(map[string]*CtrlListener)
var ctrlMutex sync.Mutex

// CtrlListener accepts line-oriented commands on a unix socket and dispatches them to registered callbacks keyed by
// the first token of the line. Each successfully handled line is answered with "ok".
//
type CtrlListener struct {
	key       string
	listener  net.Listener
	lock      sync.Mutex
	callbacks map[string][]func(string) error
	running   bool
}

// GetCtrlListener returns the listener for (root, id), creating the socket "<root>/<id>.<pid>.sock" on first use.
//
func GetCtrlListener(root, id string) (*CtrlListener, error) {
	ctrlMutex.Lock()
	defer ctrlMutex.Unlock()

	if cl, found := ctrlListeners[root+id]; found {
		return cl, nil
	}

	cl := &CtrlListener{key: root + id, callbacks: make(map[string][]func(string) error)}
	unixAddress, err := net.ResolveUnixAddr("unix", CtrlSocketPath(root, id))
	if err != nil {
		return nil, errors.Wrap(err, "error resolving unix address")
	}
	cl.listener, err = net.ListenUnix("unix", unixAddress)
	if err != nil {
		return nil, errors.Wrap(err, "error listening")
	}
	ctrlListeners[cl.key] = cl
	return cl, nil
}

func CtrlSocketPath(root, id string) string {
	return filepath.Join(root, fmt.Sprintf("%s.%d.sock", id, os.Getpid()))
}

func (self *CtrlListener) AddCallback(keyword string, f func(string) error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.callbacks[keyword] = append(self.callbacks[keyword], f)
}

func (self *CtrlListener) Addr() net.Addr {
	return self.listener.Addr()
}

func (self *CtrlListener) Start() {
	ctrlMutex.Lock()
	defer ctrlMutex.Unlock()

	if !self.running {
		self.running = true
		go self.run()
	}
}

func (self *CtrlListener) Close() error {
	ctrlMutex.Lock()
	delete(ctrlListeners, self.key)
	ctrlMutex.Unlock()
	return self.listener.Close()
}

func (self *CtrlListener) run() {
	logrus.Infof("[%s] started", self.listener.Addr())
	defer logrus.Infof("[%s] exited", self.listener.Addr())

	for {
		conn, err := self.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logrus.Errorf("error accepting ctrl connection (%v)", err)
			continue
		}
		go self.handle(conn)
	}
}

func (self *CtrlListener) handle(conn net.Conn) {
	logrus.Debugf("new connection for [%s]", conn.LocalAddr())
	defer logrus.Debugf("ended connection for [%s]", conn.LocalAddr())
	defer func() { _ = conn.Close() }()

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		tokens := strings.Fields(line)
		if len(tokens) < 1 {
			logrus.Errorf("no tokens")
			self.respond(conn, "syntax error?\n")
			continue
		}

		self.lock.Lock()
		fs, found := self.callbacks[tokens[0]]
		self.lock.Unlock()
		if !found {
			logrus.Errorf("no callback for [%s]", line)
			self.respond(conn, "syntax error?\n")
			continue
		}

		var fErr error
		for _, f := range fs {
			if fErr = f(line); fErr != nil {
				break
			}
		}
		if fErr == nil {
			self.respond(conn, "ok\n")
		} else {
			logrus.Errorf("error executing callback (%v)", fErr)
			self.respond(conn, fmt.Sprintf("error (%s)\n", fErr))
		}
	}
}

func (self *CtrlListener) respond(conn net.Conn, msg string) {
	if _, err := conn.Write([]byte(msg)); err != nil {
		logrus.Errorf("error responding (%v)", err)
	}
}
