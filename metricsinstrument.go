package tachyon

import (
	"bytes"
	"fmt"
	"github.com/emirpasic/gods/trees/btree"
	"github.com/openziti/tachyon/cf"
	"github.com/openziti/tachyon/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const metricsVersion = 1

type metricsInstrument struct {
	lock      sync.Mutex
	config    *metricsInstrumentConfig
	enabled   int32
	instances []*metricsInstrumentInstance
	cl        *util.CtrlListener
}

type metricsInstrumentConfig struct {
	Path       string `cf:"path"`
	SnapshotMs int    `cf:"snapshot_ms"`
	Enabled    bool   `cf:"enabled"`
	Ctrl       bool   `cf:"ctrl"`
}

func NewMetricsInstrument(config map[string]interface{}) (Instrument, error) {
	i := &metricsInstrument{
		config: &metricsInstrumentConfig{
			Path:       os.TempDir(),
			SnapshotMs: 1000,
			Enabled:    true,
		},
	}
	if config != nil {
		if err := cf.Load(config, i.config); err != nil {
			return nil, errors.Wrap(err, "unable to load config")
		}
	}
	if i.config.SnapshotMs < 1 {
		return nil, errors.Errorf("invalid snapshot_ms [%d]", i.config.SnapshotMs)
	}
	i.setEnabled(i.config.Enabled)
	if i.config.Ctrl {
		cl, err := util.GetCtrlListener(i.config.Path, "tachyon")
		if err != nil {
			return nil, errors.Wrap(err, "unable to get metrics ctrl listener")
		}
		cl.AddCallback("start", func(string) error {
			i.setEnabled(true)
			return nil
		})
		cl.AddCallback("stop", func(string) error {
			i.setEnabled(false)
			return nil
		})
		cl.AddCallback("write", func(string) error {
			err := i.WriteAllSamples()
			if err != nil {
				logrus.Errorf("error writing samples (%v)", err)
			}
			return err
		})
		cl.AddCallback("clean", func(string) error {
			i.clean()
			return nil
		})
		cl.Start()
		i.cl = cl
	}
	logrus.Info(cf.Dump("metrics", i.config))
	return i, nil
}

func (self *metricsInstrument) NewInstance(id string, addr *net.UDPAddr) InstrumentInstance {
	self.lock.Lock()
	defer self.lock.Unlock()

	ii := &metricsInstrumentInstance{
		id:     id,
		addr:   addr,
		i:      self,
		peers:  btree.NewWith(8, addrComparator),
		close:  make(chan struct{}),
		exited: make(chan struct{}),
	}
	go ii.snapshotter(time.Duration(self.config.SnapshotMs) * time.Millisecond)
	self.instances = append(self.instances, ii)
	return ii
}

func (self *metricsInstrument) setEnabled(enabled bool) {
	if enabled {
		atomic.StoreInt32(&self.enabled, 1)
	} else {
		atomic.StoreInt32(&self.enabled, 0)
	}
}

func (self *metricsInstrument) isEnabled() bool {
	return atomic.LoadInt32(&self.enabled) == 1
}

// WriteAllSamples writes the samples of every instance into its own directory under the configured path.
//
func (self *metricsInstrument) WriteAllSamples() error {
	self.lock.Lock()
	defer self.lock.Unlock()

	if err := os.MkdirAll(self.config.Path, os.ModePerm); err != nil {
		return err
	}
	for _, ii := range self.instances {
		if err := ii.write(self.config.Path); err != nil {
			return errors.Wrapf(err, "error writing [%s]", ii.id)
		}
	}
	return nil
}

func (self *metricsInstrument) clean() {
	self.lock.Lock()
	defer self.lock.Unlock()

	open := self.instances[:0]
	for _, ii := range self.instances {
		if ii.isClosed() {
			logrus.Infof("removed metricsInstrumentInstance [%s]", ii.id)
		} else {
			open = append(open, ii)
		}
	}
	self.instances = open
}

type metricsInstrumentInstance struct {
	id        string
	addr      *net.UDPAddr
	i         *metricsInstrument
	close     chan struct{}
	exited    chan struct{}
	closeOnce sync.Once
	closed    int32

	// accumulators, swapped into samples by the snapshotter
	rxBytesAccum   int64
	rxMsgsAccum    int64
	txBytesAccum   int64
	txMsgsAccum    int64
	truncatedAccum int64
	errorsAccum    int64

	lock      sync.Mutex
	peers     *btree.Tree
	rxBytes   []*util.Sample
	rxMsgs    []*util.Sample
	txBytes   []*util.Sample
	txMsgs    []*util.Sample
	truncated []*util.Sample
	errors    []*util.Sample
}

/*
 * socket
 */
func (self *metricsInstrumentInstance) Bound(addr *net.UDPAddr) {
	self.lock.Lock()
	self.addr = addr
	self.lock.Unlock()
}

/*
 * wire
 */
func (self *metricsInstrumentInstance) DatagramRx(peer *net.UDPAddr, sz int) {
	if !self.i.isEnabled() {
		return
	}
	atomic.AddInt64(&self.rxBytesAccum, int64(sz))
	atomic.AddInt64(&self.rxMsgsAccum, 1)

	self.lock.Lock()
	if v, found := self.peers.Get(peer); found {
		self.peers.Put(peer, v.(int64)+1)
	} else {
		self.peers.Put(peer, int64(1))
	}
	self.lock.Unlock()
}

func (self *metricsInstrumentInstance) DatagramTx(_ *net.UDPAddr, sz int) {
	if self.i.isEnabled() {
		atomic.AddInt64(&self.txBytesAccum, int64(sz))
		atomic.AddInt64(&self.txMsgsAccum, 1)
	}
}

func (self *metricsInstrumentInstance) Truncated(*net.UDPAddr, int) {
	if self.i.isEnabled() {
		atomic.AddInt64(&self.truncatedAccum, 1)
	}
}

func (self *metricsInstrumentInstance) ReadError(error) {
	self.countError()
}

func (self *metricsInstrumentInstance) WriteError(*net.UDPAddr, error) {
	self.countError()
}

/*
 * payload
 */
func (self *metricsInstrumentInstance) DecodeError(*net.UDPAddr, error) {
	self.countError()
}

func (self *metricsInstrumentInstance) EncodeError(*net.UDPAddr, error) {
	self.countError()
}

func (self *metricsInstrumentInstance) HandlerError(*net.UDPAddr, error) {
	self.countError()
}

/*
 * instrument lifecycle
 */
func (self *metricsInstrumentInstance) Shutdown() {
	self.closeOnce.Do(func() {
		atomic.StoreInt32(&self.closed, 1)
		close(self.close)
	})
	<-self.exited
}

func (self *metricsInstrumentInstance) countError() {
	if self.i.isEnabled() {
		atomic.AddInt64(&self.errorsAccum, 1)
	}
}

func (self *metricsInstrumentInstance) isClosed() bool {
	return atomic.LoadInt32(&self.closed) == 1
}

func (self *metricsInstrumentInstance) snapshotter(interval time.Duration) {
	logrus.Debugf("[%s] snapshotter started", self.id)
	defer logrus.Debugf("[%s] snapshotter exited", self.id)
	defer close(self.exited)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			self.snapshot()
		case <-self.close:
			self.snapshot()
			return
		}
	}
}

func (self *metricsInstrumentInstance) snapshot() {
	now := time.Now()
	self.lock.Lock()
	defer self.lock.Unlock()

	self.rxBytes = append(self.rxBytes, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.rxBytesAccum, 0)})
	self.rxMsgs = append(self.rxMsgs, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.rxMsgsAccum, 0)})
	self.txBytes = append(self.txBytes, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.txBytesAccum, 0)})
	self.txMsgs = append(self.txMsgs, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.txMsgsAccum, 0)})
	self.truncated = append(self.truncated, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.truncatedAccum, 0)})
	self.errors = append(self.errors, &util.Sample{Ts: now, V: atomic.SwapInt64(&self.errorsAccum, 0)})
}

func (self *metricsInstrumentInstance) peerTallies() []*util.Tally {
	self.lock.Lock()
	defer self.lock.Unlock()

	var tallies []*util.Tally
	it := self.peers.Iterator()
	for it.Next() {
		tallies = append(tallies, &util.Tally{Name: it.Key().(*net.UDPAddr).String(), V: it.Value().(int64)})
	}
	return tallies
}

func (self *metricsInstrumentInstance) write(root string) error {
	peerName := strings.ReplaceAll(fmt.Sprintf("%s_", self.id), ":", "-")
	outPath, err := os.MkdirTemp(root, peerName)
	if err != nil {
		return err
	}
	logrus.Infof("writing metrics to [%s]", outPath)

	tallies := self.peerTallies()

	self.lock.Lock()
	defer self.lock.Unlock()

	var values map[string]string
	if self.addr != nil {
		values = map[string]string{"addr": self.addr.String()}
	}
	if err := util.WriteMetricsId(fmt.Sprintf("tachyon.%d", metricsVersion), outPath, values); err != nil {
		return err
	}
	series := map[string][]*util.Sample{
		"rx_bytes":  self.rxBytes,
		"rx_msgs":   self.rxMsgs,
		"tx_bytes":  self.txBytes,
		"tx_msgs":   self.txMsgs,
		"truncated": self.truncated,
		"errors":    self.errors,
	}
	for name, samples := range series {
		if err := util.WriteSamples(name, outPath, samples); err != nil {
			return err
		}
	}
	return util.WriteTallies("peers", outPath, tallies)
}

func addrComparator(i, j interface{}) int {
	ai := i.(*net.UDPAddr)
	aj := j.(*net.UDPAddr)
	if c := bytes.Compare(ai.IP.To16(), aj.IP.To16()); c != 0 {
		return c
	}
	if ai.Port < aj.Port {
		return -1
	}
	if ai.Port > aj.Port {
		return 1
	}
	return 0
}
