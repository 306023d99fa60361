package live

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublish(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn, "staff")
		close(registered)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(conn)
				return
			}
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("client was not registered")
	}
	assert.Equal(t, 1, hub.ClientCount())

	hub.Publish("purchase_comped", map[string]interface{}{"id": 9})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := client.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string         `json:"event"`
		Data  map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "purchase_comped", msg.Event)
	assert.Equal(t, 9, msg.Data["id"])
}

func TestHubPublishWithoutClients(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() { hub.Publish("tab_opened", nil) })
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubDropsStalledClient(t *testing.T) {
	hub := NewHub()
	hub.WriteWait = 50 * time.Millisecond
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn, "staff")
		close(registered)
	}))
	defer srv.Close()

	// client ini tidak pernah membaca, jadi buffer socket akhirnya penuh
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("client was not registered")
	}

	big := strings.Repeat("x", 1<<20)
	for i := 0; i < 500 && hub.ClientCount() > 0; i++ {
		start := time.Now()
		hub.Publish("purchase_recorded", big)
		require.Less(t, time.Since(start), 2*time.Second, "publish blocked on a stalled client")
	}
	assert.Equal(t, 0, hub.ClientCount())
}
