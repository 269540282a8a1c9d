package server

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/creachadair/jrpc2"

	"github.com/chimed/chime/common"
)

// serveWS upgrades the connection and runs a JSON-RPC session over it, with
// server push enabled so ring events reach the client unprompted.
func (ws *WebServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		ws.log.Warning("web: websocket accept: %v", err)
		return
	}
	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(rpcMethods(ws.ctrl), &jrpc2.ServerOptions{
		AllowPush: true,
	})
	srv.Start(ch)
	ws.notifier.register(srv)
	defer ws.notifier.unregister(srv)
	if err := srv.Wait(); err != nil && err != context.Canceled {
		ws.log.Info("web: websocket session ended: %v", err)
	}
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

// wsChannel adapts a websocket connection to the jrpc2 channel interface.
type wsChannel struct {
	conn *websocket.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(msg []byte) error {
	return c.conn.Write(c.ctx, websocket.MessageText, msg)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	if err != nil {
		return nil, err
	}
	if len(data) > common.MaxMessageSize {
		return nil, ErrFrameTooLarge
	}
	return data, nil
}

func (c *wsChannel) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
