package sim

import "time"

// Timer represents a scheduled event on the virtual clock
type Timer struct {
	WakeTime time.Duration
	Handler  func(*Timer) uint8
	Next     *Timer
}

// Handler results
const (
	Done       = 0
	Reschedule = 1
)

// Scheduler keeps timers sorted by WakeTime and dispatches them as virtual
// time advances. Not safe for concurrent use.
type Scheduler struct {
	list *Timer
	now  time.Duration
}

// Now returns the virtual time
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Schedule adds a timer. A timer at the same WakeTime as others runs after them.
func (s *Scheduler) Schedule(t *Timer) {
	if s.list == nil || t.WakeTime < s.list.WakeTime {
		t.Next = s.list
		s.list = t
		return
	}

	current := s.list
	for current.Next != nil && current.Next.WakeTime <= t.WakeTime {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// Cancel removes t if it is scheduled
func (s *Scheduler) Cancel(t *Timer) {
	for p := &s.list; *p != nil; p = &(*p).Next {
		if *p == t {
			*p = t.Next
			t.Next = nil
			return
		}
	}
}

// pending returns the number of scheduled timers
func (s *Scheduler) pending() int {
	n := 0
	for t := s.list; t != nil; t = t.Next {
		n++
	}
	return n
}

// AdvanceTo runs every timer due at or before to, in WakeTime order, with
// Now set to each timer's WakeTime while its handler runs. Handlers that
// return Reschedule must move WakeTime forward.
func (s *Scheduler) AdvanceTo(to time.Duration) {
	for s.list != nil && s.list.WakeTime <= to {
		timer := s.list
		s.list = timer.Next
		timer.Next = nil

		if timer.WakeTime > s.now {
			s.now = timer.WakeTime
		}
		if timer.Handler(timer) == Reschedule {
			s.Schedule(timer)
		}
	}
	if to > s.now {
		s.now = to
	}
}
