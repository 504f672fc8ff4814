//go:build unix || windows

package ctrlc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ForwardsFromSource(t *testing.T) {
	tab, src := newFakeTable(t)
	c, err := tab.newCounter(Ctrlc)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, 1, src.send(Ctrlc))
	require.Eventually(t, func() bool { return c.Get() == 1 }, waitTimeout, time.Millisecond)
}

func TestRegistry_CloseUnsubscribes(t *testing.T) {
	tab, src := newFakeTable(t)
	c, err := tab.newCounter(Ctrlc)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.Equal(t, 1, src.stops(Ctrlc))
	assert.Zero(t, src.send(Ctrlc))
}

func TestRegistry_QueuedDeliveryNeverReachesNextOwner(t *testing.T) {
	tab, src := newFakeTable(t)
	for i := range 100 {
		first, err := tab.newChannel([]Signal{Ctrlc}, false)
		require.NoError(t, err)
		src.send(Ctrlc)
		require.NoError(t, first.Close())

		next, err := tab.newChannel([]Signal{Ctrlc}, false)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
		_, err = next.TryRecv()
		require.ErrorIs(t, err, ErrChannelEmpty, "iteration %d", i)
		require.NoError(t, next.Close())
	}
}

func TestRegistry_PendingRowDropsDeliveries(t *testing.T) {
	tab, _ := newFakeTable(t)
	r, err := tab.lookup(Ctrlc)
	require.NoError(t, err)
	before := r.counter.Load()

	r.state.Store(uint32(statePending))
	tab.raise(Ctrlc)
	r.state.Store(uint32(stateFree))
	tab.raise(Ctrlc)

	assert.Equal(t, before, r.counter.Load())
}
