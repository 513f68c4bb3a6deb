package notifiers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/daniacca/bondsim/internal/bonding"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
	streamQueueSize  = 256
	clientQueueSize  = 64
)

// streamClient is one WebSocket subscriber. An empty sim receives events of
// every simulation.
type streamClient struct {
	conn *websocket.Conn
	sim  bonding.SimulationID
	send chan []byte
}

func (c *streamClient) wants(event bonding.BondEvent) bool {
	return c.sim == "" || c.sim == event.SimulationID
}

// WebSocketNotifier streams bond events to WebSocket subscribers. A single hub
// goroutine owns the subscriber set; each subscriber has its own writer so a
// slow client cannot stall the others. Subscribers whose queue fills up are
// dropped.
type WebSocketNotifier struct {
	id       string
	upgrader websocket.Upgrader

	events chan bonding.BondEvent
	join   chan *streamClient
	leave  chan *streamClient

	mu      sync.RWMutex
	clients map[*streamClient]struct{}

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWebSocketNotifier starts the hub.
func NewWebSocketNotifier(id string) *WebSocketNotifier {
	wsn := &WebSocketNotifier{
		id: id,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		events:  make(chan bonding.BondEvent, streamQueueSize),
		join:    make(chan *streamClient),
		leave:   make(chan *streamClient),
		clients: make(map[*streamClient]struct{}),
		done:    make(chan struct{}),
	}
	wsn.wg.Add(1)
	go wsn.hub()
	return wsn
}

func (wsn *WebSocketNotifier) ID() string   { return wsn.id }
func (wsn *WebSocketNotifier) Type() string { return "websocket" }

// ClientCount returns the number of connected subscribers.
func (wsn *WebSocketNotifier) ClientCount() int {
	wsn.mu.RLock()
	defer wsn.mu.RUnlock()
	return len(wsn.clients)
}

// Notify queues the event for the hub. It gives up after a second if the hub
// is backed up.
func (wsn *WebSocketNotifier) Notify(ctx context.Context, event bonding.BondEvent) error {
	select {
	case <-wsn.done:
		return fmt.Errorf("stream %s is closed", wsn.id)
	default:
	}

	timer := time.NewTimer(time.Second)
	defer timer.Stop()
	select {
	case wsn.events <- event:
		return nil
	case <-wsn.done:
		return fmt.Errorf("stream %s is closed", wsn.id)
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("stream %s queue full", wsn.id)
	}
}

// Serve upgrades the request and streams events of sim, or of every
// simulation when sim is empty, until the client goes away.
func (wsn *WebSocketNotifier) Serve(w http.ResponseWriter, r *http.Request, sim bonding.SimulationID) error {
	conn, err := wsn.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade: %w", err)
	}

	client := &streamClient{conn: conn, sim: sim, send: make(chan []byte, clientQueueSize)}
	select {
	case wsn.join <- client:
	case <-wsn.done:
		conn.Close()
		return fmt.Errorf("stream %s is closed", wsn.id)
	}

	go wsn.writeLoop(client)

	conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case wsn.leave <- client:
	case <-wsn.done:
	}
	return nil
}

// writeLoop drains the client's queue and keeps the connection alive. It owns
// closing the connection.
func (wsn *WebSocketNotifier) writeLoop(c *streamClient) {
	ping := time.NewTicker(streamPingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (wsn *WebSocketNotifier) hub() {
	defer wsn.wg.Done()
	for {
		select {
		case <-wsn.done:
			wsn.mu.Lock()
			for c := range wsn.clients {
				close(c.send)
				delete(wsn.clients, c)
			}
			wsn.mu.Unlock()
			return

		case c := <-wsn.join:
			wsn.mu.Lock()
			wsn.clients[c] = struct{}{}
			wsn.mu.Unlock()

		case c := <-wsn.leave:
			wsn.drop(c)

		case event := <-wsn.events:
			msg, err := event.JSON()
			if err != nil {
				continue
			}
			wsn.mu.RLock()
			var slow []*streamClient
			for c := range wsn.clients {
				if !c.wants(event) {
					continue
				}
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			wsn.mu.RUnlock()
			for _, c := range slow {
				wsn.drop(c)
			}
		}
	}
}

// drop removes a client and closes its queue. Only the hub calls it.
func (wsn *WebSocketNotifier) drop(c *streamClient) {
	wsn.mu.Lock()
	defer wsn.mu.Unlock()
	if _, ok := wsn.clients[c]; ok {
		delete(wsn.clients, c)
		close(c.send)
	}
}

// Close stops the hub and disconnects every subscriber. Safe to call twice.
func (wsn *WebSocketNotifier) Close() error {
	wsn.closeOnce.Do(func() {
		close(wsn.done)
		wsn.wg.Wait()
	})
	return nil
}
