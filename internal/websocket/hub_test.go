package websocket

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskquest/internal/scoring"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failWith error
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) snapshot() ([][]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.messages...), f.closed
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func TestPublishReachesOnlyTheAccount(t *testing.T) {
	h := startHub(t)
	mine, theirs := &fakeConn{}, &fakeConn{}
	require.True(t, h.Register(&Client{UserID: 1, Conn: mine}))
	require.True(t, h.Register(&Client{UserID: 2, Conn: theirs}))

	h.NotifyCompletion(1, &scoring.Outcome{TaskID: "t1", PointsEarned: 50, NewTotalPoints: 130, NewLevel: 2, LevelChanged: true})

	require.Eventually(t, func() bool {
		msgs, _ := mine.snapshot()
		return len(msgs) == 1
	}, time.Second, 5*time.Millisecond)

	msgs, _ := mine.snapshot()
	var ev CompletionEvent
	require.NoError(t, json.Unmarshal(msgs[0], &ev))
	assert.Equal(t, CompletionEvent{Type: "task.completed", TaskID: "t1", PointsEarned: 50,
		NewTotalPoints: 130, NewLevel: 2, LevelChanged: true}, ev)

	other, _ := theirs.snapshot()
	assert.Empty(t, other)
}

func TestFailedWriteDropsClient(t *testing.T) {
	h := startHub(t)
	conn := &fakeConn{failWith: errors.New("broken pipe")}
	require.True(t, h.Register(&Client{UserID: 1, Conn: conn}))

	h.Publish(1, map[string]string{"type": "ping"})

	require.Eventually(t, func() bool {
		_, closed := conn.snapshot()
		return closed
	}, time.Second, 5*time.Millisecond)
}

func TestUnregisterClosesConn(t *testing.T) {
	h := startHub(t)
	conn := &fakeConn{}
	client := &Client{UserID: 4, Conn: conn}
	require.True(t, h.Register(client))
	h.Unregister(client)

	assert.Eventually(t, func() bool {
		_, closed := conn.snapshot()
		return closed
	}, time.Second, 5*time.Millisecond)
}

func TestStoppedHubRefusesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	conn := &fakeConn{}
	require.True(t, h.Register(&Client{UserID: 1, Conn: conn}))
	cancel()
	<-stopped

	assert.Eventually(t, func() bool {
		_, closed := conn.snapshot()
		return closed
	}, time.Second, 5*time.Millisecond)
	assert.False(t, h.Register(&Client{UserID: 1, Conn: &fakeConn{}}))
	h.Publish(1, "dropped") // must not block
}

// blockingConn stalls every write until release is closed.
type blockingConn struct {
	fakeConn
	release chan struct{}
}

func (b *blockingConn) WriteMessage(mt int, data []byte) error {
	<-b.release
	return b.fakeConn.WriteMessage(mt, data)
}

func TestStalledClientDoesNotBlockOthers(t *testing.T) {
	h := startHub(t)
	slow := &blockingConn{release: make(chan struct{})}
	defer close(slow.release)
	require.True(t, h.Register(&Client{UserID: 1, Conn: slow}))

	for i := 0; i < clientBuffer+2; i++ {
		h.Publish(1, map[string]int{"seq": i})
	}

	fast := &fakeConn{}
	require.True(t, h.Register(&Client{UserID: 2, Conn: fast}))
	h.Publish(2, map[string]string{"type": "ping"})

	require.Eventually(t, func() bool {
		msgs, _ := fast.snapshot()
		return len(msgs) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestOverflowingClientIsDropped(t *testing.T) {
	h := startHub(t)
	slow := &blockingConn{release: make(chan struct{})}
	require.True(t, h.Register(&Client{UserID: 1, Conn: slow}))

	for i := 0; i < clientBuffer+2; i++ {
		h.Publish(1, map[string]int{"seq": i})
	}
	// Give the hub time to hit the full buffer before the writer drains it.
	time.Sleep(50 * time.Millisecond)
	close(slow.release)

	require.Eventually(t, func() bool {
		_, closed := slow.snapshot()
		return closed
	}, time.Second, 5*time.Millisecond)
	msgs, _ := slow.snapshot()
	assert.Less(t, len(msgs), clientBuffer+2)
}
