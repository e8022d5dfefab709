package services

import (
	"encoding/json"
	"sync"

	"quizbuilder/logger"
	"quizbuilder/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	EventQuizCreated = "quiz_created"
	EventQuizDeleted = "quiz_deleted"
)

// Hub fans quiz lifecycle events out to every connected list view.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	log        *logger.Logger
}

type Client struct {
	hub    *Hub
	id     string
	socket *websocket.Conn
	send   chan []byte
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.WithField("client_id", client.id).WithField("clients", total).Debug("client registered")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.WithField("client_id", client.id).WithField("clients", total).Debug("client unregistered")

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()

		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(messageType string, payload interface{}) {
	if h == nil {
		return
	}

	data, err := json.Marshal(Message{Type: messageType, Payload: payload})
	if err != nil {
		h.log.WithError(err).Error("failed to marshal hub message")
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

func (h *Hub) BroadcastQuizCreated(quiz *models.Quiz) {
	h.Broadcast(EventQuizCreated, models.QuizSummary{
		ID:            quiz.ID,
		Title:         quiz.Title,
		CreatedAt:     quiz.CreatedAt,
		QuestionCount: len(quiz.Questions),
	})
}

func (h *Hub) BroadcastQuizDeleted(id string) {
	h.Broadcast(EventQuizDeleted, map[string]string{"id": id})
}

func (h *Hub) RegisterClient(conn *websocket.Conn) *Client {
	client := &Client{
		hub:    h,
		id:     uuid.NewString(),
		socket: conn,
		send:   make(chan []byte, 256),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()

	return client
}

// sendTo queues data for one client unless the hub already dropped it.
func (h *Hub) sendTo(c *Client, data []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if !h.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("websocket read error")
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.log.WithError(err).Debug("ignoring malformed websocket message")
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		data, _ := json.Marshal(Message{Type: "pong", Payload: "pong"})
		c.hub.sendTo(c, data)
	default:
		c.hub.log.WithField("type", msg.Type).Debug("unknown websocket message type")
	}
}
