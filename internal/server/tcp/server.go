package tcp

import (
	"errors"
	"net"
	"sync/atomic"

	"github.com/tofu345/http-library/http/status"
)

// OnConn takes the ownership over the connection. It's called on the accepting goroutine,
// so it must not block for long.
type OnConn func(net.Conn)

type Server struct {
	sock     net.Listener
	onConn   OnConn
	shutdown atomic.Bool
}

func NewServer(sock net.Listener, onConn OnConn) *Server {
	return &Server{
		sock:   sock,
		onConn: onConn,
	}
}

// Start accepts connections until the listener is closed. After Stop, status.ErrShutdown
// is returned instead of the listener's error.
func (s *Server) Start() error {
	for {
		conn, err := s.sock.Accept()
		if err != nil {
			if s.shutdown.Load() || errors.Is(err, net.ErrClosed) {
				return status.ErrShutdown
			}

			return err
		}

		s.onConn(conn)
	}
}

// Stop closes the listener. Already accepted connections are left untouched.
func (s *Server) Stop() error {
	if s.shutdown.Swap(true) {
		return nil
	}

	return s.sock.Close()
}

func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}
