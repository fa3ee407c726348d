package worker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool(3)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		ok := p.Submit(func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
		require.True(t, ok)
	}
	p.Stop()
	require.Equal(t, 5, count)
}

func TestPoolStopTwiceAndSubmitAfterStop(t *testing.T) {
	p := NewPool(0)
	require.True(t, p.Submit(nil))
	p.Stop()
	p.Stop()
	require.False(t, p.Submit(func() { t.Fatal("must not run") }))
}
