package network

import (
	"errors"
	"fmt"
	"net"

	"github.com/ratel-online/core/log"
	"github.com/ratel-online/core/protocol"
	"github.com/ratel-online/core/util/async"
)

// Tcp serves terminal clients speaking the packet protocol over raw TCP.
type Tcp struct {
	addr string
}

func NewTcpServer(addr string) Tcp {
	return Tcp{addr: addr}
}

func (t Tcp) Serve() error {
	listener, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("listen tcp %s: %w", t.addr, err)
	}
	log.Infof("Tcp server listening on %s\n", listener.Addr())
	return t.accept(listener)
}

func (t Tcp) accept(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if errors.Is(err, net.ErrClosed) {
			return err
		}
		if err != nil {
			log.Infof("listener.Accept err %v\n", err)
			continue
		}
		async.Async(func() {
			if err := handle(protocol.NewTcpReadWriteCloser(conn)); err != nil {
				log.Infof("tcp %s closed: %v\n", conn.RemoteAddr(), err)
			}
		})
	}
}
