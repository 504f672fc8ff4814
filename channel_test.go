//go:build unix || windows

package ctrlc

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_TryRecvEmpty(t *testing.T) {
	tab, _ := newFakeTable(t)
	ch, err := tab.newChannel([]Signal{Ctrlc}, false)
	require.NoError(t, err)
	defer ch.Close()

	_, err = ch.TryRecv()
	require.ErrorIs(t, err, ErrChannelEmpty)
}

func TestChannel_ReceivesEachDeliveryOnce(t *testing.T) {
	tab, _ := newFakeTable(t)
	ch, err := tab.newChannel([]Signal{Ctrlc, Termination}, false)
	require.NoError(t, err)
	defer ch.Close()

	tab.raise(Termination)
	got, err := ch.TryRecv()
	require.NoError(t, err)
	assert.Equal(t, Termination, got)

	tab.raise(Ctrlc)
	got, err = ch.TryRecv()
	require.NoError(t, err)
	assert.Equal(t, Ctrlc, got)

	_, err = ch.TryRecv()
	require.ErrorIs(t, err, ErrChannelEmpty)
}

func TestChannel_TwoPendingBothReceived(t *testing.T) {
	tab, _ := newFakeTable(t)
	ch, err := tab.newChannel([]Signal{Ctrlc, Termination}, false)
	require.NoError(t, err)
	defer ch.Close()

	tab.raise(Ctrlc)
	tab.raise(Termination)

	var got []Signal
	for range 2 {
		s, err := ch.TryRecv()
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.ElementsMatch(t, []Signal{Ctrlc, Termination}, got)

	_, err = ch.TryRecv()
	require.ErrorIs(t, err, ErrChannelEmpty)
}

func TestChannel_RotatesBetweenReadySignals(t *testing.T) {
	tab, _ := newFakeTable(t)
	ch, err := tab.newChannel([]Signal{Ctrlc, Termination}, false)
	require.NoError(t, err)
	defer ch.Close()

	for range 2 {
		tab.raise(Ctrlc)
		tab.raise(Termination)
	}

	var got []Signal
	for range 4 {
		s, err := ch.TryRecv()
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.Equal(t, []Signal{Ctrlc, Termination, Ctrlc, Termination}, got)
}

func TestChannel_RecvBlocksUntilDelivery(t *testing.T) {
	tab, _ := newFakeTable(t)
	ch, err := tab.newChannel([]Signal{Termination}, false)
	require.NoError(t, err)
	defer ch.Close()

	done := make(chan struct{})
	var got Signal
	var rerr error
	go func() {
		defer close(done)
		got, rerr = ch.Recv()
	}()

	tab.raise(Termination)
	waitFor(t, done, "Recv")
	require.NoError(t, rerr)
	assert.Equal(t, Termination, got)
}

func TestChannel_EmptySet(t *testing.T) {
	tab, _ := newFakeTable(t)
	_, err := tab.newChannel(nil, false)
	require.ErrorIs(t, err, ErrNoSignals)
}

func TestChannel_DeduplicatesByNative(t *testing.T) {
	tab, _ := newFakeTable(t)
	ch, err := tab.newChannel([]Signal{Ctrlc, Ctrlc, Other(Ctrlc.Native()), Termination}, false)
	require.NoError(t, err)
	defer ch.Close()

	assert.Equal(t, []Signal{Ctrlc, Termination}, ch.Signals())

	tab.raise(Ctrlc)
	got, err := ch.TryRecv()
	require.NoError(t, err)
	assert.Equal(t, Ctrlc, got)
}

func TestChannel_AllOrNothing(t *testing.T) {
	tab, src := newFakeTable(t)
	owner, err := tab.newCounter(Termination)
	require.NoError(t, err)
	defer owner.Close()

	_, err = tab.newChannel([]Signal{Ctrlc, Termination}, false)
	require.ErrorIs(t, err, ErrMultipleHandlers)

	// Ctrlc was installed first and must have been rolled back.
	assert.Equal(t, 1, src.stops(Ctrlc))
	c, err := tab.newCounter(Ctrlc)
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestChannel_InvalidSignalInstallsNothing(t *testing.T) {
	tab, src := newFakeTable(t)
	_, err := tab.newChannel([]Signal{Ctrlc, Other(Native(9999))}, false)
	require.ErrorIs(t, err, ErrNoSuchSignal)
	assert.Equal(t, 0, src.stops(Ctrlc))

	c, err := tab.newCounter(Ctrlc)
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestChannel_DropsDeliveriesFromEarlierSubscriber(t *testing.T) {
	tab, _ := newFakeTable(t)
	first, err := tab.newChannel([]Signal{Ctrlc}, false)
	require.NoError(t, err)
	tab.raise(Ctrlc)
	require.NoError(t, first.Close())

	second, err := tab.newChannel([]Signal{Ctrlc}, false)
	require.NoError(t, err)
	defer second.Close()
	_, err = second.TryRecv()
	require.ErrorIs(t, err, ErrChannelEmpty)
}

func TestChannel_CountsDeliveries(t *testing.T) {
	tab, _ := newFakeTable(t)
	ch, err := tab.newChannel([]Signal{Ctrlc}, false)
	require.NoError(t, err)
	tab.raise(Ctrlc)
	require.NoError(t, ch.Close())

	c, err := tab.newCounter(Ctrlc)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, uint64(1), c.Get())
}

func TestChannel_Closed(t *testing.T) {
	tab, src := newFakeTable(t)
	ch, err := tab.newChannel([]Signal{Ctrlc, Termination}, false)
	require.NoError(t, err)
	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())
	assert.Equal(t, 1, src.stops(Ctrlc))
	assert.Equal(t, 1, src.stops(Termination))

	_, err = ch.Recv()
	require.ErrorIs(t, err, ErrClosed)
	_, err = ch.TryRecv()
	require.ErrorIs(t, err, ErrClosed)
}

func TestChannel_Overwrite(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("console handlers have no ignored disposition")
	}
	tab, src := newFakeTable(t)
	src.setIgnored(Ctrlc, true)

	_, err := tab.newChannel([]Signal{Ctrlc}, false)
	require.ErrorIs(t, err, ErrMultipleHandlers)

	ch, err := tab.newChannel([]Signal{Ctrlc}, true)
	require.NoError(t, err)
	defer ch.Close()

	// overwrite never steals from a live subscriber of this registry.
	_, err = tab.newChannel([]Signal{Ctrlc}, true)
	require.ErrorIs(t, err, ErrMultipleHandlers)
}

func TestChannelBuilder(t *testing.T) {
	tab, _ := newFakeTable(t)
	b := &ChannelBuilder{tab: tab}
	ch, err := b.AddSignal(Ctrlc).AddSignal(Termination).Build()
	require.NoError(t, err)
	defer ch.Close()
	assert.Equal(t, []Signal{Ctrlc, Termination}, ch.Signals())

	_, err = (&ChannelBuilder{tab: tab}).Build()
	require.ErrorIs(t, err, ErrNoSignals)
}
