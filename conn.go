package main

import (
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

// connection is one participant. run reads on the calling goroutine and
// writes on another; all registry state lives on the hub side.
type connection struct {
	w    websocketManager
	h    *hub
	send chan []byte
	log  *slog.Logger

	// Owned by the hub goroutine.
	room   string
	closed bool
}

func newConnection(w websocketManager, h *hub, sendBuffer int, log *slog.Logger) *connection {
	return &connection{
		w:    w,
		h:    h,
		send: make(chan []byte, sendBuffer),
		log:  log,
	}
}

// run blocks until the transport is gone. The deferred LEAVE is the only
// cleanup path, whatever closed the connection.
func (c *connection) run() {
	c.h.queue <- command{cmd: REGISTER, conn: c}
	incr(metricWebsockets, 1)
	defer func() {
		decr(metricWebsockets, 1)
		c.h.queue <- command{cmd: LEAVE, conn: c}
	}()
	go c.writer(c.h.ticker)
	c.reader()
}

func (c *connection) reader() {
	defer c.w.wsClose()
	c.w.wsPrepareRead()
	for {
		if err := c.readMessage(); err != nil {
			c.logReadError(err)
			return
		}
	}
}

// readMessage returns an error only when the transport failed. A message
// that does not decode is logged and dropped.
func (c *connection) readMessage() error {
	_, raw, err := c.w.wsReadMessage()
	if err != nil {
		return err
	}
	incr(metricRecv, 1)
	msg, err := decodeMessage(raw)
	if err != nil {
		incr(metricMalformed, 1)
		c.log.Warn("conn.malformed", "err", err)
		return nil
	}
	switch msg.Type {
	case kindJoin:
		room := msg.ID
		if !validRoomID(room) {
			c.log.Warn("conn.room_rejected", "len", utf8.RuneCountInString(room))
			room = ""
		}
		c.h.queue <- command{cmd: JOIN, conn: c, room: room}
	case kindText:
		c.h.queue <- command{cmd: PUBLISH, conn: c, text: msg.Data}
	default:
		c.log.Debug("conn.ignored", "type", msg.Type)
	}
	return nil
}

func (c *connection) logReadError(err error) {
	var closeErr *websocket.CloseError
	switch {
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived):
		c.log.Debug("conn.closed", "err", err)
	case errors.Is(err, websocket.ErrReadLimit):
		c.log.Warn("conn.too_large", "err", err)
	case errors.As(err, &closeErr):
		c.log.Info("conn.closed", "code", closeErr.Code, "err", err)
	default:
		c.log.Debug("conn.dropped", "err", err)
	}
}

func (c *connection) writer(ping *mTicker) {
	sub := ping.subscribe()
	defer func() {
		ping.unsubscribe(sub)
		c.w.wsClose()
	}()
	tick := sub.tick
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.w.wsWriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.w.wsWriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Debug("conn.write", "err", err)
				return
			}
			incr(metricSend, 1)
		case _, ok := <-tick:
			if !ok {
				tick = nil
				continue
			}
			if err := c.w.wsWriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// deliver queues payload without blocking. It reports false when the
// connection is gone or its queue is full. Hub goroutine only.
func (c *connection) deliver(payload []byte) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}
