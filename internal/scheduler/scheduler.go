package scheduler

import (
	"container/heap"
	"context"
	"time"

	"github.com/adhocore/gronx"

	"github.com/chimed/chime/pkg/chimelib"
	"github.com/chimed/chime/pkg/logger"
)

// maxSleep caps how long the run loop sleeps before re-checking the heap, so
// wall-clock adjustments are picked up within a minute.
const maxSleep = 60 * time.Second

// TriggerFunc is called when a wake fires. It runs on its own goroutine.
type TriggerFunc func(id int, params chimelib.WakeParams)

// Scheduler is the exact-wake timer. It satisfies chimelib.ExactWaker.
type Scheduler struct {
	log       logger.Logger
	onTrigger TriggerFunc

	wakes      wakeHeap
	addChan    chan *chimelib.WakeEvent
	removeChan chan int

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler starts the timer's run loop. The loop stops when ctx is
// cancelled or Shutdown is called.
func NewScheduler(ctx context.Context, l logger.Logger, onTrigger TriggerFunc) *Scheduler {
	if l == nil {
		l = logger.NewNopLogger()
	}
	cctx, cancel := context.WithCancel(ctx)
	s := &Scheduler{
		log:        l,
		onTrigger:  onTrigger,
		wakes:      wakeHeap{},
		addChan:    make(chan *chimelib.WakeEvent),
		removeChan: make(chan int),
		ctx:        cctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	heap.Init(&s.wakes)
	go s.run()
	return s
}

// Schedule arms a wake. A pending wake for the same alarm id is replaced.
func (s *Scheduler) Schedule(ev chimelib.WakeEvent) error {
	if ev.CronExpr != "" {
		if !gronx.New().IsValid(ev.CronExpr) {
			return ErrInvalidCronExpr
		}
	}
	select {
	case s.addChan <- &ev:
		return nil
	case <-s.ctx.Done():
		return ErrSchedulerClosed
	}
}

// Cancel removes the pending wake for the given alarm id, if any.
func (s *Scheduler) Cancel(id int) {
	select {
	case s.removeChan <- id:
	case <-s.ctx.Done():
	}
}

// Shutdown stops the run loop and waits for it to exit.
func (s *Scheduler) Shutdown() {
	s.cancel()
	<-s.done
}

var _ chimelib.ExactWaker = (*Scheduler)(nil)

func (s *Scheduler) run() {
	defer close(s.done)
	for {
		if len(s.wakes) == 0 {
			select {
			case <-s.ctx.Done():
				return
			case ev := <-s.addChan:
				s.push(ev)
			case id := <-s.removeChan:
				s.remove(id)
			}
			continue
		}

		next := s.wakes[0]
		wait := time.Until(next.TriggerAt)
		if wait > maxSleep {
			wait = maxSleep
		}
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)

		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case ev := <-s.addChan:
			timer.Stop()
			s.push(ev)
		case id := <-s.removeChan:
			timer.Stop()
			s.remove(id)
		case <-timer.C:
			if time.Now().Before(next.TriggerAt) {
				// capped sleep expired early, go around
				continue
			}
			s.fire(next)
		}
	}
}

func (s *Scheduler) push(ev *chimelib.WakeEvent) {
	if i := s.wakes.indexOf(ev.AlarmId); i >= 0 {
		heap.Remove(&s.wakes, i)
	}
	heap.Push(&s.wakes, ev)
	s.log.Info("scheduler: armed alarm %d for %s", ev.AlarmId, ev.TriggerAt.Format(time.RFC3339))
}

func (s *Scheduler) remove(id int) {
	if i := s.wakes.indexOf(id); i >= 0 {
		heap.Remove(&s.wakes, i)
		s.log.Info("scheduler: cancelled alarm %d", id)
	}
}

func (s *Scheduler) fire(ev *chimelib.WakeEvent) {
	heap.Pop(&s.wakes)
	s.log.Info("scheduler: alarm %d due, firing", ev.AlarmId)
	go s.onTrigger(ev.AlarmId, ev.Params)

	if ev.CronExpr == "" {
		return
	}
	next, err := gronx.NextTickAfter(ev.CronExpr, time.Now(), false)
	if err != nil {
		s.log.Error("scheduler: alarm %d cron %q: %v", ev.AlarmId, ev.CronExpr, err)
		return
	}
	re := *ev
	re.TriggerAt = next
	heap.Push(&s.wakes, &re)
	s.log.Info("scheduler: alarm %d re-armed for %s", ev.AlarmId, next.Format(time.RFC3339))
}
