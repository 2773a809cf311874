package teamhttp

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter_PrunesIdleEntries(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	for i := 0; i <= cleanupThreshold; i++ {
		l.GetLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	assert.Equal(t, cleanupThreshold+1, l.size())

	now = now.Add(maxIdleAge + time.Minute)
	same := l.GetLimiter("10.0.0.0")
	assert.Equal(t, 1, l.size())
	assert.Same(t, same, l.GetLimiter("10.0.0.0"))
}
