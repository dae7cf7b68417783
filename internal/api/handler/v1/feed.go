package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vietanh2810/basepoint-api/internal/domain"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
	feedSendBuffer = 64
)

// FeedMessage is what feed subscribers receive for every notification.
type FeedMessage struct {
	Type         string              `json:"type"`
	Notification domain.Notification `json:"notification"`
}

type feedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// FeedHub fans capture and reward notifications out to websocket
// subscribers. It implements the notifier contract so it can sit next to
// the webhook and log notifiers.
type FeedHub struct {
	uSvc     UserService
	upgrader websocket.Upgrader

	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	clients    atomic.Int64
}

func NewFeedHub(uSvc UserService, allowedOrigins []string) *FeedHub {
	h := &FeedHub{
		uSvc:       uSvc,
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		broadcast:  make(chan []byte, feedSendBuffer),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(allowedOrigins, "*") {
				return true
			}
			return slices.Contains(allowedOrigins, origin)
		},
	}

	return h
}

// Run owns the subscriber set until ctx ends or Close is called.
func (h *FeedHub) Run(ctx context.Context) {
	clients := make(map[*feedClient]struct{})
	drop := func(c *feedClient) {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			close(c.send)
			h.clients.Add(-1)
		}
	}
	defer func() {
		h.Close()
		for c := range clients {
			drop(c)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case c := <-h.register:
			clients[c] = struct{}{}
			h.clients.Add(1)
		case c := <-h.unregister:
			drop(c)
		case msg := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- msg:
				default:
					zap.L().Warn("dropping slow feed subscriber", zap.Uint("user_id", c.userID))
					drop(c)
				}
			}
		}
	}
}

// Close stops Run and disconnects every subscriber.
func (h *FeedHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Subscribers reports how many connections are registered.
func (h *FeedHub) Subscribers() int {
	return int(h.clients.Load())
}

// Notify queues n for every subscriber. A closed hub drops it.
func (h *FeedHub) Notify(ctx context.Context, n domain.Notification) error {
	msg, err := json.Marshal(FeedMessage{Type: "notification", Notification: n})
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleFeed godoc
// @Summary      Live capture and reward feed
// @Description  Upgrades to a websocket that receives a FeedMessage per notification. Browsers may pass the token as a query parameter.
// @Tags         territory
// @Produce      json
// @Param        token  query     string  false  "JWT when the Authorization header cannot be set"
// @Success      101    {string}  string  "Switching Protocols"
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /feed [get]
// @Security BearerAuth
func (h *FeedHub) HandleFeed(ctx *gin.Context) {
	member, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		ctx.AbortWithStatusJSON(respErr.HTTPStatusCode, respErr)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader has already written the failure response.
		zap.L().Debug("feed upgrade failed", zap.Error(err))
		return
	}

	c := &feedClient{
		conn:   conn,
		send:   make(chan []byte, feedSendBuffer),
		userID: member.ID,
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames; the feed is one way.
func (c *feedClient) readPump(h *FeedHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("feed connection closed", zap.Uint("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}
