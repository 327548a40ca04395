package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/weeklyeats/internal/events"
)

const pingInterval = 30 * time.Second

// Client streams grocery events to a single WebSocket connection.
type Client struct {
	conn   *ws.Conn
	sub    *events.Subscription
	logger *slog.Logger
}

func NewClient(bus *events.Bus, conn *ws.Conn, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		sub:    bus.Subscribe(events.DefaultBuffer),
		logger: logger,
	}
}

// Run starts the write pump and runs the read pump. It blocks until the
// connection is closed, then drops the subscription.
func (c *Client) Run(ctx context.Context) {
	defer c.sub.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx, cancel)
	c.readPump(ctx)
}

// readPump discards incoming messages; it only exists to notice the peer
// going away.
func (c *Client) readPump(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-c.sub.C:
			if !ok {
				c.conn.Close(ws.StatusGoingAway, "server shutting down")
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				c.logger.Error("marshal event", "error", err)
				continue
			}
			if err := c.conn.Write(ctx, ws.MessageText, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
