package notifier

import (
	"sync"
	"testing"
	"time"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/favorites"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu           sync.Mutex
	listener     favorites.Listener
	unsubscribed bool
}

func (f *fakeSource) Subscribe(fn favorites.Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener = fn
	return func() {
		f.mu.Lock()
		f.unsubscribed = true
		f.mu.Unlock()
	}
}

func (f *fakeSource) emit(ids []int64) {
	f.mu.Lock()
	fn := f.listener
	f.mu.Unlock()
	fn(ids)
}

func TestSSENotifier_BroadcastsToAllClients(t *testing.T) {
	src := &fakeSource{}
	n := NewSSENotifier(src, contextkeys.NoopLogger())
	defer n.Close()

	a := n.AddClient()
	b := n.AddClient()
	src.emit([]int64{3, 7})

	want := "event: favorites\ndata: [3,7]\n\n"
	for _, ch := range []ClientChannel{a, b} {
		select {
		case msg := <-ch:
			assert.Equal(t, want, string(msg))
		case <-time.After(time.Second):
			t.Fatal("no event received")
		}
	}

	n.RemoveClient(b)
	src.emit([]int64{3})
	select {
	case msg := <-a:
		assert.Equal(t, "event: favorites\ndata: [3]\n\n", string(msg))
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	assert.Len(t, b, 0)
}

func TestSSENotifier_CloseUnsubscribes(t *testing.T) {
	src := &fakeSource{}
	n := NewSSENotifier(src, contextkeys.NoopLogger())
	n.Close()
	n.Close()

	src.mu.Lock()
	defer src.mu.Unlock()
	require.True(t, src.unsubscribed)
}

func TestFormatEvent(t *testing.T) {
	msg, err := FormatEvent("favorites", []int64{})
	require.NoError(t, err)
	assert.Equal(t, "event: favorites\ndata: []\n\n", string(msg))
}
