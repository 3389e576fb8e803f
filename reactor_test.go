package tachyon

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync/atomic"
	"testing"
	"time"
)

type countingCloser struct {
	closed int32
}

func (self *countingCloser) Close() error {
	atomic.AddInt32(&self.closed, 1)
	return nil
}

func TestReactorExecutesSubmittedInOrder(t *testing.T) {
	r := newReactor()
	var order []int

	require.True(t, r.spawn(func() {
		for i := 0; i < 10; i++ {
			i := i
			if !r.submit(func() { order = append(order, i) }) {
				return
			}
		}
		r.Stop()
	}))

	require.NoError(t, r.run())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestReactorStopIsTerminal(t *testing.T) {
	r := newReactor()
	r.Stop()
	require.NoError(t, r.run())
	assert.ErrorIs(t, r.run(), ErrStopped)
	assert.False(t, r.submit(func() {}))
	assert.False(t, r.spawn(func() {}))
}

func TestReactorRejectsConcurrentRun(t *testing.T) {
	r := newReactor()
	done := make(chan error, 1)
	go func() { done <- r.run() }()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&r.state) == reactorRunning
	}, time.Second, time.Millisecond)
	assert.ErrorIs(t, r.run(), ErrRunning)

	r.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reactor did not stop")
	}
}

func TestReactorClosesRegistered(t *testing.T) {
	r := newReactor()
	c := &countingCloser{}
	require.NoError(t, r.register(c))

	r.Stop()
	require.NoError(t, r.run())
	assert.Equal(t, int32(1), atomic.LoadInt32(&c.closed))

	late := &countingCloser{}
	assert.ErrorIs(t, r.register(late), ErrStopped)
	assert.Equal(t, int32(1), atomic.LoadInt32(&late.closed))
}

func TestReactorCloseWithoutRun(t *testing.T) {
	r := newReactor()
	c := &countingCloser{}
	require.NoError(t, r.register(c))

	r.close()
	assert.Equal(t, int32(1), atomic.LoadInt32(&c.closed))
	assert.ErrorIs(t, r.run(), ErrStopped)
}

func TestReactorStopUnblocksSubmit(t *testing.T) {
	r := newReactor()
	result := make(chan bool, 1)
	require.True(t, r.spawn(func() {
		result <- r.submit(func() {})
	}))

	r.close()
	select {
	case ok := <-result:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("submit did not return")
	}
}
