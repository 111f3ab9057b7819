package main

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 30 * time.Second

	// Interval of the hub's shared ping ticker, so every writer pings on
	// the same beat. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// websocketManager is the part of a websocket a connection uses. Tests
// swap in a fake.
type websocketManager interface {
	// wsPrepareRead applies the read limit and keeps the read deadline
	// moving while pongs arrive.
	wsPrepareRead()
	wsReadMessage() (int, []byte, error)
	// wsWriteMessage writes one frame under the write deadline.
	wsWriteMessage(int, []byte) error
	// wsClose may be called from any goroutine and more than once.
	wsClose()
}

type websocketInteractor struct {
	ws        *websocket.Conn
	readLimit int64
}

func (w websocketInteractor) wsPrepareRead() {
	w.ws.SetReadLimit(w.readLimit)
	_ = w.ws.SetReadDeadline(time.Now().Add(pongWait))
	w.ws.SetPongHandler(func(string) error {
		return w.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func (w websocketInteractor) wsReadMessage() (int, []byte, error) {
	return w.ws.ReadMessage()
}

func (w websocketInteractor) wsWriteMessage(kind int, payload []byte) error {
	if err := w.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.ws.WriteMessage(kind, payload)
}

func (w websocketInteractor) wsClose() {
	_ = w.ws.Close()
}
