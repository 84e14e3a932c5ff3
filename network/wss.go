package network

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/ratel-online/core/log"
	"github.com/ratel-online/core/protocol"
	"github.com/ratel-online/faker/database"
	"github.com/skip2/go-qrcode"
)

type Websocket struct {
	addr      string
	publicURL string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebsocketServer(addr, publicURL string) Websocket {
	return Websocket{addr: addr, publicURL: strings.TrimRight(publicURL, "/")}
}

func (w Websocket) Serve() error {
	log.Infof("Websocket server listening on %s\n", w.addr)
	return http.ListenAndServe(w.addr, w.Handler())
}

func (w Websocket) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", serveWs)
	mux.HandleFunc("/qr/", w.serveQR)
	return mux
}

func serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(err)
		return
	}
	if err := handle(protocol.NewWebsocketReadWriteCloser(conn)); err != nil {
		log.Error(err)
	}
}

// serveQR renders an invite link to the room as a PNG.
func (w Websocket) serveQR(rw http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/qr/"))
	if database.GetRoom(code) == nil {
		http.NotFound(rw, r)
		return
	}
	png, err := qrcode.Encode(w.InviteURL(code), qrcode.Medium, 256)
	if err != nil {
		log.Errorf("qr for room %s: %v\n", code, err)
		http.Error(rw, "could not render qr code", http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "image/png")
	rw.Header().Set("Cache-Control", "no-store")
	_, _ = rw.Write(png)
}

func (w Websocket) InviteURL(code string) string {
	return fmt.Sprintf("%s/join/%s", w.publicURL, code)
}
