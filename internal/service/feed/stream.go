package feed

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	applogger "GoldGate/pkg/logger"
)

// PriceSource supplies the walked price for streaming.
type PriceSource interface {
	CurrentPrice() (price, change24h float64)
}

// tick is one streamed price update.
type tick struct {
	Price     float64   `json:"price"`
	Change24h float64   `json:"change24h"`
	Timestamp time.Time `json:"timestamp"`
}

// Stream pushes price ticks to websocket clients. One goroutine per client;
// a slow or gone client only tears down its own connection.
type Stream struct {
	source   PriceSource
	interval time.Duration
	upgrader websocket.Upgrader
	logger   *applogger.Logger
}

// Option configures Stream.
type Option func(*Stream)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) Option {
	return func(s *Stream) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewStream builds the price stream service.
func NewStream(source PriceSource, logger *applogger.Logger, opts ...Option) *Stream {
	s := &Stream{
		source:   source,
		interval: 5 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Price data is public; origin checks add nothing here.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle upgrades the connection and streams ticks until the client leaves
// or the request context ends.
func (s *Stream) Handle(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Drain control frames so pings and the close handshake work.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.send(conn); err != nil {
		return nil
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case <-ticker.C:
			if err := s.send(conn); err != nil {
				return nil
			}
		}
	}
}

func (s *Stream) send(conn *websocket.Conn) error {
	price, change := s.source.CurrentPrice()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(tick{Price: price, Change24h: change, Timestamp: time.Now()})
}
