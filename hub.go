package main

import (
	"fmt"
	"log/slog"
)

// hub owns the room registry. Connections never touch it directly; they
// send commands on the hub queue and run applies them one at a time, which
// makes every registry change atomic without a lock.
type hub struct {
	queue  queue
	rooms  rooms
	conns  map[*connection]struct{}
	ticker *mTicker
	log    *slog.Logger

	stopping bool
}

func newHub(log *slog.Logger) *hub {
	return &hub{
		queue:  make(queue, 256),
		rooms:  make(rooms),
		conns:  make(map[*connection]struct{}),
		ticker: newMTicker(pingPeriod),
		log:    log,
	}
}

func (h *hub) run() {
	for cmd := range h.queue {
		switch cmd.cmd {
		case REGISTER:
			h.register(cmd)
		case JOIN:
			h.join(cmd)
		case PUBLISH:
			h.publish(cmd)
		case LEAVE:
			h.leave(cmd)
		case INSPECT:
			h.inspect(cmd)
		case SHUTDOWN:
			h.shutdown()
		default:
			panic(fmt.Sprintf("unexpected hub cmd: %v\n", cmd.cmd))
		}
	}
}

func (h *hub) register(cmd command) {
	h.conns[cmd.conn] = struct{}{}
	if h.stopping {
		cmd.conn.w.wsClose()
	}
}

// join puts the connection in the requested room, or in a fresh one, and
// acknowledges with the resolved id. A connection that is already in
// another room is moved out of it first.
func (h *hub) join(cmd command) {
	c := cmd.conn
	id := cmd.room
	if id == "" {
		id = h.rooms.fresh()
	}
	if c.room != "" && c.room != id {
		h.vacate(c)
	}
	if h.rooms.add(id, c) {
		incr(metricRooms, 1)
		h.log.Info("room.created", "room", id)
	}
	c.room = id
	if !c.deliver(encodeJoined(id)) {
		mark(metricDrops, 1)
	}
}

// publish relays text to everyone in the sender's room except the sender.
// A connection that has not joined anything publishes to nobody.
func (h *hub) publish(cmd command) {
	c := cmd.conn
	if c.room == "" {
		return
	}
	members := h.rooms.membersExcept(c.room, c)
	if len(members) == 0 {
		return
	}
	payload := encodeText(cmd.text)
	for _, member := range members {
		if !member.deliver(payload) {
			mark(metricDrops, 1)
		}
	}
}

// leave is the last command a connection sends. It closes the send queue,
// which ends the connection's writer.
func (h *hub) leave(cmd command) {
	c := cmd.conn
	if c.room != "" {
		h.vacate(c)
	}
	delete(h.conns, c)
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (h *hub) vacate(c *connection) {
	if h.rooms.remove(c.room, c) {
		decr(metricRooms, 1)
		h.log.Info("room.deleted", "room", c.room)
	}
	c.room = ""
}

func (h *hub) inspect(cmd command) {
	cmd.reply <- h.rooms.snapshot()
}

// shutdown closes every transport. Readers fail, send their LEAVE and the
// registry drains through the normal path, so run keeps going.
func (h *hub) shutdown() {
	if h.stopping {
		return
	}
	h.stopping = true
	h.ticker.stop()
	for c := range h.conns {
		c.w.wsClose()
	}
	h.log.Info("hub.shutdown", "connections", len(h.conns), "rooms", len(h.rooms))
}

// roomSizes asks the running hub for a snapshot of the registry.
func (h *hub) roomSizes() map[string]int {
	reply := make(chan map[string]int, 1)
	h.queue <- command{cmd: INSPECT, reply: reply}
	return <-reply
}

func (h *hub) stop() {
	h.queue <- command{cmd: SHUTDOWN}
}
