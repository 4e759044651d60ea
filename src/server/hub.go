package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golden-cross/src/models"
	"golden-cross/src/presentation"
	"golden-cross/src/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Client Registry
// -----------------------------------------------------------------------------

// addClient registers client; it fails once the server is stopping.
func (s *DashboardServer) addClient(client *Client) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if s.closed {
		return false
	}
	s.clients[client] = struct{}{}
	return true
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) removeClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		close(client.send)
	}
}

// -----------------------------------------------------------------------------

// closeClients drops every client; their write pumps send a close frame.
func (s *DashboardServer) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	s.closed = true
	for client := range s.clients {
		delete(s.clients, client)
		close(client.send)
	}
}

// -----------------------------------------------------------------------------

// deliver queues message for client unless it is gone or not reading.
func (s *DashboardServer) deliver(client *Client, message interface{}) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if _, ok := s.clients[client]; !ok {
		return
	}
	select {
	case client.send <- message:
	default:
		s.Logger.Warning("Dropping reply for slow client [%s]", client.requestID)
	}
}

// -----------------------------------------------------------------------------

// ClientCount returns the number of open websocket sessions.
func (s *DashboardServer) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		hub:       s,
		conn:      conn,
		requestID: c.GetString("request_id"),
		send:      make(chan interface{}, 16),
		ctx:       ctx,
		cancel:    cancel,
	}

	if !s.addClient(client) {
		cancel()
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage renders the view for one {"ticker","years"} message
// and queues it for the client. Malformed messages get an error view.
func (s *DashboardServer) HandleClientMessage(client *Client, message []byte) {
	var req models.MDashboardRequest
	if err := json.Unmarshal(message, &req); err != nil {
		s.Logger.Info("Failed to parse client request: %v", err)
		s.deliver(client, s.invalidRequestView(req, err))
		return
	}

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		s.deliver(client, s.invalidRequestView(req, err))
		return
	}

	s.deliver(client, s.Renderer.Render(client.ctx, req))
}

// -----------------------------------------------------------------------------

// invalidRequestView frames a rejected request like any other view. The
// date range uses the default years when the requested ones are out of range.
func (s *DashboardServer) invalidRequestView(req models.MDashboardRequest, err error) *models.MDashboardView {
	years := req.Years
	if years < 1 || years > 10 {
		years = s.Config.DataSource.DefaultYears
	}
	start, end := service.DateRange(time.Now(), years)

	view := presentation.NewView(strings.ToUpper(strings.TrimSpace(req.Ticker)), req.Years, start, end)
	return presentation.InvalidRequestView(view, err.Error())
}
