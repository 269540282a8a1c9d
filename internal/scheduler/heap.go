package scheduler

import (
	"github.com/chimed/chime/pkg/chimelib"
)

// wakeHeap is a min-heap of pending wakes ordered by trigger time. It
// implements container/heap.Interface.
type wakeHeap []*chimelib.WakeEvent

func (h wakeHeap) Len() int { return len(h) }

func (h wakeHeap) Less(i, j int) bool {
	return h[i].TriggerAt.Before(h[j].TriggerAt)
}

func (h wakeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *wakeHeap) Push(x any) {
	*h = append(*h, x.(*chimelib.WakeEvent))
}

func (h *wakeHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}

// indexOf returns the heap position of the wake for the given alarm id, or
// -1 when absent.
func (h wakeHeap) indexOf(id int) int {
	for i, ev := range h {
		if ev.AlarmId == id {
			return i
		}
	}
	return -1
}
