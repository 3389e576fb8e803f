package util

import (
	"math/rand"
	"sync"
	"time"
)

var r = rand.New(rand.NewSource(time.Now().UnixNano()))
var rLock sync.Mutex

// RandomSequence returns a small random starting point for a Sequence.
//
func RandomSequence() int32 {
	rLock.Lock()
	defer rLock.Unlock()
	return r.Int31n(1024)
}
