package main

import (
	"io"
	"os"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
)

// Counters are levels (open websockets, live rooms) or running totals;
// drops is a meter because its rate is what matters.
const (
	metricWebsockets = "websockets"
	metricRooms      = "rooms"
	metricRecv       = "conn.recv"
	metricSend       = "conn.send"
	metricMalformed  = "conn.malformed"
	metricDrops      = "drops"
)

type metrics struct {
	log io.Writer
	reg gometrics.Registry
}

var m = &metrics{
	log: os.Stderr,
	reg: gometrics.DefaultRegistry,
}

// startMetrics writes the registry as JSON every tick for the life of the
// process.
func startMetrics(tick time.Duration) {
	go gometrics.WriteJSON(m.reg, tick, m.log)
}

func finalMetrics() {
	gometrics.WriteJSONOnce(m.reg, m.log)
}

func incr(name string, i int64) {
	gometrics.GetOrRegisterCounter(name, m.reg).Inc(i)
}

func decr(name string, i int64) {
	gometrics.GetOrRegisterCounter(name, m.reg).Dec(i)
}

func mark(name string, i int64) {
	gometrics.GetOrRegisterMeter(name, m.reg).Mark(i)
}

func count(name string) int64 {
	return gometrics.GetOrRegisterCounter(name, m.reg).Count()
}

func marked(name string) int64 {
	return gometrics.GetOrRegisterMeter(name, m.reg).Count()
}
