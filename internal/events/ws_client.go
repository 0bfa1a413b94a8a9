package events

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"voxpop/backend/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocketSubscriber delivers hub events over one websocket connection.
type WebSocketSubscriber struct {
	id   string
	conn *websocket.Conn
	hub  *Hub
	send chan models.PetitionEvent
}

// NewWebSocketSubscriber wraps an upgraded connection.
func NewWebSocketSubscriber(id string, conn *websocket.Conn, hub *Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{
		id:   id,
		conn: conn,
		hub:  hub,
		send: make(chan models.PetitionEvent, 16),
	}
}

func (s *WebSocketSubscriber) ID() string { return s.id }

func (s *WebSocketSubscriber) SendChannel() chan<- models.PetitionEvent { return s.send }

// Run starts the pumps. The read pump only watches for the peer closing.
func (s *WebSocketSubscriber) Run() {
	go s.writePump()
	go s.readPump()
}

// Close closes the send channel, which stops the write pump.
func (s *WebSocketSubscriber) Close() {
	close(s.send)
}

func (s *WebSocketSubscriber) readPump() {
	defer func() {
		s.hub.UnregisterCh <- s
		s.conn.Close()
	}()
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).WithField("subscriber", s.id).Debug("event socket closed")
			}
			return
		}
		// The feed is one-way; inbound frames are ignored.
	}
}

func (s *WebSocketSubscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case event, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.WithError(err).WithField("subscriber", s.id).Warn("event encode failed")
				continue
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
