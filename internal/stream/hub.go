package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"
	"CoinPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 16
)

// Update is the wire format pushed to websocket subscribers whenever a
// fresh analysis snapshot commits.
type Update struct {
	Symbol         string    `json:"symbol"`
	Price          float64   `json:"price"`
	Change24h      float64   `json:"change_24h"`
	Phase          string    `json:"phase"`
	Sentiment      string    `json:"sentiment"`
	Recommendation string    `json:"recommendation"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Hub broadcasts analysis updates to websocket clients. It implements
// the snapshot Publisher interface so it can sit next to the Kafka
// publisher behind the same fan-out.
type Hub struct {
	log      *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

var _ drepo.Publisher = (*Hub)(nil)

type client struct {
	conn *websocket.Conn
	send chan Update
}

// NewHub creates a hub with no connected clients.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Hub) RegisterRoutes(e *echo.Echo, path string) {
	e.GET(path, h.serve)
}

func (h *Hub) serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan Update, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("stream client connected", logger.Int("clients", n))

	go h.writePump(cl)
	go h.readPump(cl)
	return nil
}

// Publish converts the snapshot to an Update and fans it out. Slow
// clients drop updates rather than stall the pipeline.
func (h *Hub) Publish(_ context.Context, res *models.AnalysisResult) error {
	u := Update{
		Symbol:         res.Symbol,
		Price:          res.CurrentPrice,
		Change24h:      res.Conditions.PriceChange24h,
		Phase:          res.Technical.MarketPhase,
		Sentiment:      res.Sentiment.Label,
		Recommendation: res.Strategy.Recommendation,
		GeneratedAt:    res.GeneratedAt,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- u:
		default:
		}
	}
	return nil
}

// Close disconnects all clients; the hub accepts no new ones after.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		close(cl.send)
		delete(h.clients, cl)
	}
	return nil
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
	_ = cl.conn.Close()
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()
	for {
		select {
		case u, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := cl.conn.WriteJSON(u); err != nil {
				h.remove(cl)
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(cl)
				return
			}
		}
	}
}

// readPump drains client frames so pings and close messages are
// processed, discarding everything else.
func (h *Hub) readPump(cl *client) {
	defer h.remove(cl)
	cl.conn.SetReadLimit(512)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// MultiPublisher fans a snapshot out to several publishers. Errors are
// collected but the fan-out always reaches every target.
type MultiPublisher struct {
	targets []drepo.Publisher
}

var _ drepo.Publisher = (*MultiPublisher)(nil)

func NewMultiPublisher(targets ...drepo.Publisher) *MultiPublisher {
	out := make([]drepo.Publisher, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			out = append(out, t)
		}
	}
	return &MultiPublisher{targets: out}
}

func (m *MultiPublisher) Publish(ctx context.Context, res *models.AnalysisResult) error {
	var first error
	for _, t := range m.targets {
		if err := t.Publish(ctx, res); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiPublisher) Close() error {
	var first error
	for _, t := range m.targets {
		if err := t.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
