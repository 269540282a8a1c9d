package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/internal/api"
	daemonrunner "github.com/chimed/chime/internal/daemon"
	"github.com/chimed/chime/internal/server"
	"github.com/chimed/chime/pkg/chimelib"
	"github.com/chimed/chime/pkg/logger"
)

// RunDaemon is the entry point of the standalone chimed binary.
func RunDaemon(webAddr string) error {
	return runDaemon(webAddr)
}

// runDaemon boots chimed: store, key/value state, daemon core, socket server
// and (optionally) the web surface, then blocks until a signal.
func runDaemon(webAddr string) error {
	l := newDaemonLogger()

	if err := writePidFile(); err != nil {
		return err
	}
	defer removePidFile()

	m, err := chimelib.InitManager()
	if err != nil {
		return err
	}
	kv, err := chimelib.OpenKV()
	if err != nil {
		l.Warning("daemon: key/value store unavailable: %v", err)
		kv = nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := api.NewApi(ctx, m, &api.Options{
		Logger: l,
		KV:     kv,
		Version: common.VersionResponse{
			Version:   version,
			Commit:    commit,
			BuildType: buildType,
		},
	})
	serv, err := server.NewServer(l)
	if err != nil {
		return err
	}
	a.RegisterHandlers(serv)

	var web *server.WebServer
	if webAddr != "" {
		web = server.NewWebServer(l, a, webAddr)
		a.SetRPCNotifier(web.Notifier())
	}

	runner, err := daemonrunner.NewRunner(&daemonrunner.Dependencies{
		Logger:  l,
		Server:  serv,
		Web:     web,
		Api:     a,
		Manager: m,
		KV:      kv,
	})
	if err != nil {
		return err
	}
	return runner.Run(ctx)
}

func newDaemonLogger() logger.Logger {
	base := logger.NewStandardLogger(log.New(os.Stderr, "chimed ", log.LstdFlags))
	if os.Getenv(common.DebugEnv) == "" {
		return base
	}
	// Debug runs mirror the log into the config dir for later inspection.
	f, err := os.OpenFile(
		chimelib.ConfigDir+string(os.PathSeparator)+"chimed.log",
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
	)
	if err != nil {
		return base
	}
	file := logger.NewStandardLogger(log.New(f, "", log.LstdFlags|log.Lmicroseconds))
	return logger.NewMultiLogger(base, file)
}
