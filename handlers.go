package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

const (
	pathLenMin = 1
	pathLenMax = 256
)

type wsHandler struct {
	h        *hub
	upgrader *websocket.Upgrader
	cfg      config
	log      *slog.Logger
}

func newWsHandler(h *hub, cfg config, log *slog.Logger) wsHandler {
	return wsHandler{
		h: h,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.Origin),
		},
		cfg: cfg,
		log: log,
	}
}

// ServeHTTP upgrades and then serves the connection until it closes. The
// request path plays no part; rooms are chosen by the join message.
func (wsh wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := wsh.upgrader.Upgrade(w, r, nil)
	if err != nil {
		wsh.log.Debug("ws.upgrade", "addr", r.RemoteAddr, "err", err)
		return
	}
	transport := websocketInteractor{ws: ws, readLimit: int64(wsh.cfg.MaxMessageSize)}
	c := newConnection(transport, wsh.h, wsh.cfg.SendBuffer, wsh.log.With("addr", r.RemoteAddr))
	c.run()
}

// getHandler serves the single-page client: a real file when one exists,
// otherwise index.html so client-side routes still load, otherwise the
// built-in page.
type getHandler struct {
	dir   string
	files http.Handler
}

func newGetHandler(dir string) getHandler {
	return getHandler{
		dir:   dir,
		files: http.FileServer(http.Dir(dir)),
	}
}

func (gh getHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !validateRequest(w, r) {
		return
	}
	name := filepath.Join(gh.dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		gh.files.ServeHTTP(w, r)
		return
	}
	index := filepath.Join(gh.dir, "index.html")
	if _, err := os.Stat(index); err == nil {
		http.ServeFile(w, r, index)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = webTemplate.Execute(w, templateArgs{Path: r.URL.Path})
}

func validateRequest(w http.ResponseWriter, r *http.Request) bool {
	if !utf8.ValidString(r.URL.Path) {
		sendBadRequestError(w, "Path must be valid Unicode (UTF-8).")
		return false
	}
	pathLen := utf8.RuneCountInString(r.URL.Path)
	if !(pathLenMin <= pathLen && pathLen <= pathLenMax) {
		sendBadRequestError(w, fmt.Sprintf(
			"Path length must be %d-%d Unicode characters (UTF-8).",
			pathLenMin, pathLenMax))
		return false
	}
	return true
}

func sendBadRequestError(w http.ResponseWriter, str string) {
	http.Error(w,
		fmt.Sprintf("Error: bad request. %s", str),
		http.StatusBadRequest)
}
