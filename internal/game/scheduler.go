package game

import "sort"

// ScheduledEvent is a one-shot callback due at an elapsed (unscaled) time.
// When Target is set and no longer resolves, the event is dropped unrun.
type ScheduledEvent struct {
	At     float64
	Name   string
	Target Handle
	Fn     func(w *World)

	seq int // insertion order, breaks ties
}

// Scheduler is the explicit delayed-effect queue. It is processed once per
// step by the World; nothing runs outside the step loop.
type Scheduler struct {
	queue []ScheduledEvent
	seq   int
}

// NewScheduler creates an empty queue.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule enqueues ev, keeping the queue ordered by due time then insertion.
func (sc *Scheduler) Schedule(ev ScheduledEvent) {
	sc.seq++
	ev.seq = sc.seq
	i := sort.Search(len(sc.queue), func(i int) bool {
		q := sc.queue[i]
		return q.At > ev.At || (q.At == ev.At && q.seq > ev.seq)
	})
	sc.queue = append(sc.queue, ScheduledEvent{})
	copy(sc.queue[i+1:], sc.queue[i:])
	sc.queue[i] = ev
}

// Pending is the number of queued events.
func (sc *Scheduler) Pending() int { return len(sc.queue) }

// Clear drops every queued event.
func (sc *Scheduler) Clear() { sc.queue = sc.queue[:0] }

// Run fires every event due at or before now, in order. Events scheduled by a
// firing callback for a time <= now also run in this pass. It returns how many
// callbacks actually ran.
func (sc *Scheduler) Run(w *World, now float64) int {
	ran := 0
	for len(sc.queue) > 0 && sc.queue[0].At <= now {
		ev := sc.queue[0]
		copy(sc.queue, sc.queue[1:])
		sc.queue = sc.queue[:len(sc.queue)-1]
		if ev.Target.Valid() && !w.registry.Alive(ev.Target) {
			continue
		}
		if ev.Fn != nil {
			ev.Fn(w)
			ran++
		}
	}
	return ran
}
