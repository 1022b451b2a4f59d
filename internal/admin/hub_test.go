package admin

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ecopulse-sim/internal/sensor"
	"ecopulse-sim/internal/sim"
)

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msg
}

func TestHubPushesReadings(t *testing.T) {
	s := sim.NewSimulator("ws-station", sensor.NewSeededGenerator(3), nil, 10*time.Millisecond)
	srv := NewServer(s, nil, testEnv)
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Hub().Run(ctx)

	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readMessage(t, conn)
	if first.Event != "reading" || first.Data.StationID != "ws-station" {
		t.Fatalf("unexpected first message: %+v", first)
	}

	h := s.Start(context.Background())
	defer h.Stop()
	for i := 0; i < 2; i++ {
		msg := readMessage(t, conn)
		if err := msg.Data.Snapshot.Validate(); err != nil {
			t.Fatalf("pushed reading invalid: %v", err)
		}
	}
	if srv.Hub().Count() != 1 {
		t.Fatalf("expected 1 client, got %d", srv.Hub().Count())
	}
}

func TestBroadcastWhileClientsDisconnect(t *testing.T) {
	h := NewHub(nil)
	clients := make([]*client, 500)
	for i := range clients {
		clients[i] = &client{send: make(chan []byte, 1)}
		h.register(clients[i])
	}
	r := sim.NewReading("race", sensor.Initial(), time.Unix(0, 0))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, c := range clients {
			h.unregister(c)
		}
	}()
	for i := 0; i < 200; i++ {
		h.broadcast(r)
		// drain so clients are not dropped as slow
		for _, c := range clients {
			select {
			case <-c.send:
			default:
			}
		}
	}
	wg.Wait()

	if n := h.Count(); n != 0 {
		t.Fatalf("expected all clients gone, got %d", n)
	}
	h.broadcast(r)
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	h := NewHub(nil)
	c := &client{send: make(chan []byte, 1)}
	h.register(c)
	r := sim.NewReading("slow", sensor.Initial(), time.Unix(0, 0))

	h.broadcast(r)
	h.broadcast(r)
	if n := h.Count(); n != 0 {
		t.Fatalf("slow client still registered: %d", n)
	}
	if _, ok := <-c.send; !ok {
		t.Fatal("expected the buffered reading before close")
	}
	if _, ok := <-c.send; ok {
		t.Fatal("send channel should be closed")
	}
}
