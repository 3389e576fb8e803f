package tachyon

import (
	"github.com/pkg/errors"
	"io"
	"sync"
	"sync/atomic"
)

var ErrStopped = errors.New("reactor stopped")
var ErrRunning = errors.New("reactor already running")

const (
	reactorIdle int32 = iota
	reactorRunning
	reactorStopped
)

type event struct {
	f    func()
	done chan struct{}
}

// reactor is the event loop owned by a single Communicator. Reader goroutines perform the blocking socket reads and
// submit one completion event at a time; every event is executed on the goroutine that called run, so handlers never
// overlap. Once stopped, a reactor cannot be run again.
//
type reactor struct {
	state    int32
	events   chan *event
	stop     chan struct{}
	stopOnce sync.Once
	lock     sync.Mutex
	closed   bool
	closers  []io.Closer
	readers  sync.WaitGroup
}

func newReactor() *reactor {
	return &reactor{
		events: make(chan *event),
		stop:   make(chan struct{}),
	}
}

func (self *reactor) run() error {
	if !atomic.CompareAndSwapInt32(&self.state, reactorIdle, reactorRunning) {
		if atomic.LoadInt32(&self.state) == reactorRunning {
			return ErrRunning
		}
		return ErrStopped
	}
	defer self.shutdown()

	for {
		select {
		case <-self.stop:
			return nil

		case ev := <-self.events:
			if self.isStopped() {
				return nil
			}
			self.execute(ev)
		}
	}
}

func (self *reactor) execute(ev *event) {
	defer close(ev.done)
	ev.f()
}

// submit hands f to the running reactor and blocks until it has been executed. Returns false when the reactor
// stopped before f completed.
//
func (self *reactor) submit(f func()) bool {
	ev := &event{f: f, done: make(chan struct{})}
	select {
	case self.events <- ev:
	case <-self.stop:
		return false
	}
	select {
	case <-ev.done:
		return true
	case <-self.stop:
		return false
	}
}

func (self *reactor) Stop() {
	self.stopOnce.Do(func() {
		close(self.stop)
	})
}

func (self *reactor) isStopped() bool {
	select {
	case <-self.stop:
		return true
	default:
		return false
	}
}

// close tears down a reactor that may never have run.
//
func (self *reactor) close() {
	self.Stop()
	if atomic.CompareAndSwapInt32(&self.state, reactorIdle, reactorStopped) {
		self.shutdown()
	}
}

func (self *reactor) register(c io.Closer) error {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.closed {
		_ = c.Close()
		return ErrStopped
	}
	self.closers = append(self.closers, c)
	return nil
}

func (self *reactor) spawn(f func()) bool {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.closed {
		return false
	}
	self.readers.Add(1)
	go func() {
		defer self.readers.Done()
		f()
	}()
	return true
}

func (self *reactor) shutdown() {
	atomic.StoreInt32(&self.state, reactorStopped)
	self.Stop()

	self.lock.Lock()
	self.closed = true
	closers := self.closers
	self.closers = nil
	self.lock.Unlock()

	for _, c := range closers {
		_ = c.Close()
	}
	self.readers.Wait()
}
