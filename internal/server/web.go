package server

import (
	"context"
	"net/http"
	"time"

	"github.com/creachadair/jrpc2/jhttp"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/pkg/chimelib"
	"github.com/chimed/chime/pkg/logger"
)

// Controller is the slice of the daemon the RPC surface needs. Implemented
// by the api layer.
type Controller interface {
	ListAlarms() []*chimelib.AlarmSettings
	AlarmStatus(id int) (*chimelib.AlarmSettings, bool, error)
	StopAlarm(id int) (bool, error)
	CancelAlarm(id int) error
	Version() common.VersionResponse
}

// WebServer exposes the daemon to remote observers: a JSON-RPC bridge on
// /rpc, a WebSocket JSON-RPC endpoint with server push on /ws, and a
// liveness probe on /healthz.
type WebServer struct {
	log      logger.Logger
	ctrl     Controller
	notifier *RPCNotifier
	bridge   jhttp.Bridge
	srv      *http.Server
}

// NewWebServer builds the web surface on addr. It does not listen until
// Start.
func NewWebServer(l logger.Logger, ctrl Controller, addr string) *WebServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	ws := &WebServer{
		log:      l,
		ctrl:     ctrl,
		notifier: NewRPCNotifier(l),
	}
	assigner := rpcMethods(ctrl)
	ws.bridge = jhttp.NewBridge(assigner, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/rpc", requireToken(l, ws.bridge))
	mux.Handle("/ws", requireToken(l, http.HandlerFunc(ws.serveWS)))

	ws.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return ws
}

// Notifier returns the push notifier for ring events.
func (ws *WebServer) Notifier() *RPCNotifier {
	return ws.notifier
}

// Start serves until Shutdown.
func (ws *WebServer) Start() error {
	ws.log.Info("web: listening on %s", ws.srv.Addr)
	err := ws.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains the web surface.
func (ws *WebServer) Shutdown(ctx context.Context) error {
	_ = ws.bridge.Close()
	return ws.srv.Shutdown(ctx)
}
