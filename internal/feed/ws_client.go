package feed

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"samadhan/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// watchRequest is the only message a subscriber sends: narrow the feed to
// specific complaints. Sending none keeps the firehose.
type watchRequest struct {
	Watch string `json:"watch"`
}

// WebSocketClient implements the feed.Client interface over a websocket
// connection.
type WebSocketClient struct {
	UserID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan models.ComplaintEvent

	mu       sync.RWMutex
	watching map[string]struct{}
}

// NewWebSocketClient wires a freshly upgraded connection to the hub.
func NewWebSocketClient(userID string, conn *websocket.Conn, hub *Hub) *WebSocketClient {
	return &WebSocketClient{
		UserID:   userID,
		Conn:     conn,
		Hub:      hub,
		Send:     make(chan models.ComplaintEvent, 256),
		watching: make(map[string]struct{}),
	}
}

func (c *WebSocketClient) GetUserID() string { return c.UserID }

func (c *WebSocketClient) GetSendChannel() chan<- models.ComplaintEvent { return c.Send }

// WantsEvent checks the watch set; an empty set means everything.
func (c *WebSocketClient) WantsEvent(ev models.ComplaintEvent) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.watching) == 0 {
		return true
	}
	_, ok := c.watching[ev.ComplaintID]
	return ok
}

func (c *WebSocketClient) addWatch(complaintID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watching[complaintID] = struct{}{}
}

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the send channel, which stops the write pump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump consumes watch requests until the connection drops, then
// unregisters the client.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading feed message: %v", err)
			}
			break
		}

		var req watchRequest
		if err := json.Unmarshal(message, &req); err != nil {
			log.Printf("Error decoding watch request from %s: %v", c.UserID, err)
			continue
		}
		if req.Watch != "" {
			c.addWatch(req.Watch)
		}
	}
}

// writePump drains the send channel onto the websocket and keeps the
// connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding feed event for %s: %v", c.UserID, err)
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Flush whatever queued while we held the writer.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				extra, _ := json.Marshal(next)
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
