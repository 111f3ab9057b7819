package main

type cmdKind int

const (
	REGISTER cmdKind = iota + 1
	JOIN
	PUBLISH
	LEAVE
	INSPECT
	SHUTDOWN
)

func (k cmdKind) String() string {
	switch k {
	case REGISTER:
		return "register"
	case JOIN:
		return "join"
	case PUBLISH:
		return "publish"
	case LEAVE:
		return "leave"
	case INSPECT:
		return "inspect"
	case SHUTDOWN:
		return "shutdown"
	}
	return "unknown"
}

// command is the only way into the hub. Everything that touches the
// registry travels through the hub queue, in order.
type command struct {
	cmd  cmdKind
	conn *connection
	// room is the requested room for JOIN. Empty asks for a fresh one.
	room string
	text string
	// reply receives the registry snapshot for INSPECT.
	reply chan map[string]int
}

type queue chan command
