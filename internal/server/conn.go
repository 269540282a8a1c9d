package server

import (
	"net"
	"sync"

	"github.com/chimed/chime/common"
)

// SyncConn serializes frame writes to one client connection, so a handler
// reply and a broadcast never interleave on the wire.
type SyncConn struct {
	conn net.Conn
	mu   sync.Mutex
}

func newSyncConn(conn net.Conn) *SyncConn {
	return &SyncConn{conn: conn}
}

// Send pushes an update of the given type to the client.
func (sc *SyncConn) Send(t common.UpdateType, v any) error {
	out, err := makeResult(t, v)
	if err != nil {
		return err
	}
	return sc.write(out)
}

// SendError pushes an error response to the client.
func (sc *SyncConn) SendError(err error) error {
	return sc.write(makeError(err))
}

func (sc *SyncConn) write(body []byte) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return writeFrame(sc.conn, body)
}

func (sc *SyncConn) read() ([]byte, error) {
	return readFrame(sc.conn)
}

// Close closes the underlying connection.
func (sc *SyncConn) Close() error {
	return sc.conn.Close()
}
