package teamservice

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuildLocksSerializePerGuild(t *testing.T) {
	locks := newGuildLocks()

	var inside, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("guild-1")
			defer unlock()
			n := inside.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
	assert.Zero(t, locks.size())
}

func TestGuildLocksAreIndependent(t *testing.T) {
	locks := newGuildLocks()
	unlockA := locks.Lock("guild-a")
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("guild-b")
		unlockB()
		close(done)
	}()
	<-done
	assert.Equal(t, 1, locks.size())
	unlockA()
	assert.Zero(t, locks.size())
}
