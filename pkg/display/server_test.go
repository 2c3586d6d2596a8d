package display

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantvis/livechart/pkg/chart"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	s := NewServer("BTCUSDT")
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestPingRoute(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pong")
}

func TestIndexPage(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<title>BTCUSDT</title>")
	assert.Contains(t, string(body), "/ws")
}

func TestFrameRoute(t *testing.T) {
	s, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/frame")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	s.Broadcast(&chart.Frame{Step: 3, Title: "Net worth: $1100.00 | Profit: 10.00%"})

	resp, err = http.Get(ts.URL + "/api/frame")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var frame chart.Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&frame))
	assert.Equal(t, 3, frame.Step)
	assert.Equal(t, "Net worth: $1100.00 | Profit: 10.00%", frame.Title)
}

func TestWebSocketPush(t *testing.T) {
	s, ts := testServer(t)

	// the latest frame is delivered on connect
	s.Broadcast(&chart.Frame{Step: 1, Title: "first", NetWorth: []byte("a"), Price: []byte("b")})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	var frame chart.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, 1, frame.Step)
	assert.Equal(t, "first", frame.Title)
	assert.Equal(t, []byte("a"), frame.NetWorth)

	s.Broadcast(&chart.Frame{Step: 2, Title: "second"})

	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, 2, frame.Step)
	assert.Equal(t, "second", frame.Title)
}

func TestBroadcastDuringConnects(t *testing.T) {
	s, ts := testServer(t)

	frame := &chart.Frame{Step: 1, Title: "first", NetWorth: []byte("a"), Price: []byte("b")}
	s.Broadcast(frame)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.Broadcast(frame)
			}
		}
	}()

	// clients connect while the broadcaster is hammering; each one must
	// still receive an intact frame
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	for i := 0; i < 50; i++ {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		if resp != nil {
			resp.Body.Close()
		}

		var got chart.Frame
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, 1, got.Step)
		assert.Equal(t, []byte("a"), got.NetWorth)
		require.NoError(t, conn.Close())
	}

	close(stop)
	wg.Wait()
}

func TestBroadcastSkipsStalledClient(t *testing.T) {
	s, ts := testServer(t)

	s.Broadcast(&chart.Frame{Step: 1, Title: "first"})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// the client reads nothing while far more frames than its queue
	// holds are broadcast; every call must return without blocking
	for step := 2; step < 100; step++ {
		s.Broadcast(&chart.Frame{Step: step, Title: "flood"})
	}

	// the replayed frame is still first in the queue
	var got chart.Frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, 1, got.Step)
}
