// Package api wires the daemon together: it owns the alarm registry, the
// exact-wake scheduler and the channel fabric, and exposes them as handlers
// on the socket server and as the controller behind the web surface.
package api

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/spf13/afero"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/internal/channel"
	"github.com/chimed/chime/internal/scheduler"
	"github.com/chimed/chime/internal/server"
	"github.com/chimed/chime/pkg/chimelib"
	"github.com/chimed/chime/pkg/logger"
)

// ForcePollEnv forces the foreground-poll strategy even when the exact-wake
// timer is available. Mainly for exercising the fallback path.
const ForcePollEnv = "CHIMED_FORCE_POLL"

// Options carries the platform collaborators of the daemon. Nil fields
// degrade to safe defaults.
type Options struct {
	Logger       logger.Logger
	KV           *chimelib.KV
	Vibrator     chimelib.Vibrator
	SystemVolume chimelib.SystemVolume
	Notifier     chimelib.Notifier
	Lifecycle    chimelib.LifecycleObserver

	// AssetFS resolves audio asset references. Defaults to the host
	// filesystem.
	AssetFS afero.Fs

	// Engine overrides the audio engine factory, for tests.
	Engine func() chimelib.Engine

	Version common.VersionResponse
}

// Api is the daemon core.
type Api struct {
	log    logger.Logger
	stdlog *log.Logger

	manager  *chimelib.Manager
	kv       *chimelib.KV
	registry *chimelib.AlarmRegistry
	sched    *scheduler.Scheduler
	channels *channel.Registry
	pool     *server.Pool
	rpcPush  *server.RPCNotifier

	vibrator chimelib.Vibrator
	sysvol   chimelib.SystemVolume
	notifier chimelib.Notifier
	fs       afero.Fs
	engine   func() chimelib.Engine

	version common.VersionResponse
}

// NewApi builds the daemon core over the persistent store. The scheduler's
// run loop stops when ctx is cancelled.
func NewApi(ctx context.Context, m *chimelib.Manager, opts *Options) *Api {
	if opts == nil {
		opts = &Options{}
	}
	l := opts.Logger
	if l == nil {
		l = logger.NewNopLogger()
	}
	a := &Api{
		log:      l,
		stdlog:   logger.ToStdLogger(l),
		manager:  m,
		kv:       opts.KV,
		vibrator: opts.Vibrator,
		sysvol:   opts.SystemVolume,
		notifier: opts.Notifier,
		fs:       opts.AssetFS,
		engine:   opts.Engine,
		version:  opts.Version,
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.engine == nil {
		a.engine = func() chimelib.Engine { return chimelib.NewOtoEngine(a.fs) }
	}
	a.channels = channel.NewRegistry(a.stdlog)
	a.sched = scheduler.NewScheduler(ctx, l, a.onWake)

	caps := chimelib.Capabilities{ExactWake: os.Getenv(ForcePollEnv) == ""}
	strategy := chimelib.NewArmStrategy(caps, a.sched, a.onWake, &chimelib.StrategyOpts{
		Logger:    a.stdlog,
		Lifecycle: opts.Lifecycle,
		Prober:    a.sessionProber,
	})
	a.log.Info("api: arming with %s strategy", strategy.Name())

	a.registry = chimelib.NewAlarmRegistry(m, strategy, a.ringFactory, &chimelib.RegistryOpts{
		Logger:   a.stdlog,
		KV:       opts.KV,
		Notifier: opts.Notifier,
	})
	return a
}

// Registry exposes the alarm registry, mainly for tests.
func (a *Api) Registry() *chimelib.AlarmRegistry {
	return a.registry
}

// Reconcile re-arms the persisted alarms after a restart, and undoes a
// volume-max raise left behind by a process killed mid-ring.
func (a *Api) Reconcile() error {
	if a.kv != nil && a.sysvol != nil {
		if raw, ok, _ := a.kv.Get(chimelib.KeySavedVolume); ok {
			if vol, err := strconv.ParseFloat(raw, 64); err == nil {
				if err := a.sysvol.SetVolume(vol); err != nil {
					a.log.Warning("api: restoring saved volume: %v", err)
				}
			}
			_ = a.kv.Delete(chimelib.KeySavedVolume)
		}
	}
	return a.registry.ReconcileOnStartup()
}

// SetRPCNotifier connects the web surface's push channel.
func (a *Api) SetRPCNotifier(n *server.RPCNotifier) {
	a.rpcPush = n
}

// RegisterHandlers installs every socket method on the server.
func (a *Api) RegisterHandlers(serv *server.Server) {
	a.pool = serv.Pool()
	serv.RegisterHandler(common.UPDATE_SET, a.setHandler)
	serv.RegisterHandler(common.UPDATE_STOP, a.stopHandler)
	serv.RegisterHandler(common.UPDATE_STOP_ALL, a.stopAllHandler)
	serv.RegisterHandler(common.UPDATE_CANCEL, a.cancelHandler)
	serv.RegisterHandler(common.UPDATE_SNOOZE, a.snoozeHandler)
	serv.RegisterHandler(common.UPDATE_LIST, a.listHandler)
	serv.RegisterHandler(common.UPDATE_GET, a.getHandler)
	serv.RegisterHandler(common.UPDATE_ATTACH, a.attachHandler)
	serv.RegisterHandler(common.UPDATE_VERSION, a.versionHandler)
}

// Shutdown stops the scheduler. Live rings keep their goroutines until
// stopped; the daemon exit tears the process down anyway.
func (a *Api) Shutdown() {
	a.sched.Shutdown()
}

// onWake fires a ring. Reached from the scheduler's timer, the immediate
// fire path and the poll watchdogs alike.
func (a *Api) onWake(id int, p chimelib.WakeParams) {
	a.log.Info("api: alarm %d waking", id)
	a.registry.HandleWake(id, p)
}

// sessionProber resolves the live engine for a ring session, so a watchdog
// resuming in the foreground can probe whether audio is already playing.
func (a *Api) sessionProber(id int) chimelib.PositionProber {
	if ctrl := a.registry.Session(id); ctrl != nil {
		return ctrl.Session().Engine
	}
	return nil
}

// ringFactory builds the controller for one ring session: fresh engine,
// channel endpoints under the alarm's names, events fanned out to attached
// clients and the web push channel.
func (a *Api) ringFactory(s *chimelib.AlarmSettings) *chimelib.RingController {
	ringPort := a.channels.Register(channel.RingPortName(s.Id))
	ctrlPort := a.channels.Register(channel.ControlPortName(s.Id))
	go a.pumpRingMessages(s.Id, ringPort)

	// A volume-max ring remembers the pre-ring volume across a process death;
	// Reconcile restores it on the next start.
	if s.VolumeMax && a.kv != nil && a.sysvol != nil {
		if vol, err := a.sysvol.GetVolume(); err == nil {
			_ = a.kv.Put(chimelib.KeySavedVolume, strconv.FormatFloat(vol, 'f', -1, 64))
		}
	}

	id := s.Id
	return chimelib.NewRingController(s, a.engine(), &chimelib.RingControllerOpts{
		Logger:       a.stdlog,
		Vibrator:     a.vibrator,
		SystemVolume: a.sysvol,
		Notifier:     a.notifier,
		Send: func(msg string) {
			a.channels.Send(channel.RingPortName(id), msg)
		},
		Control: ctrlPort.Recv(),
		OnEvent: a.broadcastEvent,
	})
}

// pumpRingMessages drains the ring port. Message delivery is observability,
// never control: the daemon logs what the ringer announces.
func (a *Api) pumpRingMessages(id int, port *channel.Port) {
	for msg := range port.Recv() {
		a.log.Info("channel: alarm %d: %s", id, msg)
	}
}

// broadcastEvent pushes one ring milestone to the attached socket clients
// and the web sessions, and tears down the channel endpoints once the ring
// is over.
func (a *Api) broadcastEvent(ev chimelib.RingEvent) {
	resp := common.RingingResponse{
		AlarmId: ev.AlarmId,
		Action:  ringAction(ev.Phase),
		Value:   ev.Value,
	}
	if a.pool != nil {
		a.pool.Broadcast(ev.AlarmId, common.UPDATE_RINGING, resp)
	}
	if a.rpcPush != nil {
		a.rpcPush.NotifyRinging(resp)
	}
	if ev.Phase == chimelib.PhaseStopped || ev.Phase == chimelib.PhaseCancelled {
		if a.kv != nil {
			_ = a.kv.Delete(chimelib.KeySavedVolume)
		}
		if p := a.channels.Lookup(channel.RingPortName(ev.AlarmId)); p != nil {
			a.channels.Deregister(p)
		}
		if p := a.channels.Lookup(channel.ControlPortName(ev.AlarmId)); p != nil {
			a.channels.Deregister(p)
		}
	}
}

func ringAction(p chimelib.RingPhase) common.RingingAction {
	switch p {
	case chimelib.PhaseStarted:
		return common.RingStarted
	case chimelib.PhaseFadeStep:
		return common.RingFadeStep
	case chimelib.PhaseVibrate:
		return common.RingVibrate
	case chimelib.PhaseCancelled:
		return common.RingCancelled
	default:
		return common.RingStopped
	}
}
