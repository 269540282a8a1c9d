// Package daemon runs the chimed process: reconcile the store, serve the
// socket and the web surface, and tear everything down in order on exit.
package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/chimed/chime/internal/api"
	"github.com/chimed/chime/internal/server"
	"github.com/chimed/chime/pkg/chimelib"
	"github.com/chimed/chime/pkg/logger"
)

// shutdownGrace is how long the web surface gets to drain on exit.
const shutdownGrace = 5 * time.Second

// Dependencies are the components the runner drives. Server, Api, Manager
// and Logger are required; Web and KV are optional.
type Dependencies struct {
	Logger  logger.Logger
	Server  *server.Server
	Web     *server.WebServer
	Api     *api.Api
	Manager *chimelib.Manager
	KV      *chimelib.KV
}

func (d *Dependencies) validate() error {
	switch {
	case d == nil:
		return errors.New("daemon: nil dependencies")
	case d.Logger == nil:
		return errors.New("daemon: logger is required")
	case d.Server == nil:
		return errors.New("daemon: server is required")
	case d.Api == nil:
		return errors.New("daemon: api is required")
	case d.Manager == nil:
		return errors.New("daemon: manager is required")
	}
	return nil
}

// Runner owns the daemon lifecycle.
type Runner struct {
	deps *Dependencies
}

// NewRunner validates the dependency set.
func NewRunner(deps *Dependencies) (*Runner, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &Runner{deps: deps}, nil
}

// Run blocks until ctx is cancelled or the socket server fails, then shuts
// everything down. The persisted store is reconciled before serving.
func (r *Runner) Run(ctx context.Context) error {
	d := r.deps
	if err := d.Api.Reconcile(); err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- d.Server.Start()
	}()
	if d.Web != nil {
		go func() {
			errCh <- d.Web.Start()
		}()
	}
	d.Logger.Info("daemon: up")

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, server.ErrServerClosed) {
			runErr = err
		}
	}

	r.shutdown()
	return runErr
}

func (r *Runner) shutdown() {
	d := r.deps
	d.Logger.Info("daemon: shutting down")
	if d.Web != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		if err := d.Web.Shutdown(ctx); err != nil {
			d.Logger.Warning("daemon: web shutdown: %v", err)
		}
		cancel()
	}
	if err := d.Server.Shutdown(); err != nil {
		d.Logger.Warning("daemon: server shutdown: %v", err)
	}
	d.Api.Shutdown()
	if d.KV != nil {
		if err := d.KV.Close(); err != nil {
			d.Logger.Warning("daemon: kv close: %v", err)
		}
	}
	if err := d.Manager.Close(); err != nil {
		d.Logger.Warning("daemon: store close: %v", err)
	}
	_ = d.Logger.Close()
}
