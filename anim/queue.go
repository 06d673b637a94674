package anim

import (
	"fmt"
	"slices"
	"time"
)

// queue is one FIFO track of animations. Entries run in order; a blocking
// entry stops the pass after it has been processed.
type queue struct {
	items     []Animation
	rewinds   []*rewind
	secondary bool

	// dirty is set whenever the shape of the queue changed: entries were
	// added, finished, canceled or removed.
	dirty bool
}

func newQueue(secondary bool, items ...Animation) *queue {
	q := &queue{secondary: secondary}
	q.push(items...)
	return q
}

func (q *queue) push(items ...Animation) {
	if len(items) == 0 {
		return
	}
	q.items = append(q.items, items...)
	q.dirty = true
}

func (q *queue) takeDirty() bool {
	d := q.dirty
	q.dirty = false
	return d
}

func (q *queue) len() int {
	return len(q.items)
}

// advance runs one pass over the queue. fail decides what happens to an
// animation whose update failed; a non-nil return aborts the pass.
func (q *queue) advance(us *UpdateState, qs *QueueState, fail func(Animation, error) error) error {
	for i := 0; i < len(q.items); i++ {
		a := q.items[i]
		if terminal(a) {
			continue
		}
		if !us.Paused || a.IgnorePause() {
			err := safeUpdate(a, us, qs)
			if terminal(a) {
				q.dirty = true
			}
			if err != nil {
				if ferr := fail(a, err); ferr != nil {
					return ferr
				}
				q.dirty = true
			}
		}
		if a.Blocking() {
			break
		}
	}
	return nil
}

func safeUpdate(a Animation, us *UpdateState, qs *QueueState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return a.Update(us, qs)
}

// sweep dequeues terminal entries from the front, stopping at the first one
// still running, then appends any loop that is ready to start over. A loop
// whose closing step reaches the front with every step done is restarted
// here, so the next cycle begins on the following tick, or dropped when one
// of its steps was canceled.
func (q *queue) sweep() (finished, canceled int) {
	n := 0
	for {
		for n < len(q.items) && terminal(q.items[n]) {
			if q.items[n].Canceled() {
				canceled++
			} else {
				finished++
			}
			n++
		}
		if n < len(q.items) {
			if r, ok := q.items[n].(*rewind); ok && r.ready() {
				r.close(q)
				continue
			}
		}
		break
	}
	if n > 0 {
		q.items = slices.Delete(q.items, 0, n)
		q.dirty = true
	}
	q.flushRewinds()
	return finished, canceled
}

func (q *queue) scheduleRewind(r *rewind) {
	q.rewinds = append(q.rewinds, r)
	q.dirty = true
}

func (q *queue) flushRewinds() {
	if len(q.rewinds) == 0 {
		return
	}
	kept := q.rewinds[:0]
	for _, r := range q.rewinds {
		if q.holds(r) {
			kept = append(kept, r)
			continue
		}
		q.push(r.resubmit()...)
	}
	clear(q.rewinds[len(kept):])
	q.rewinds = kept
}

// holds reports whether any instance of the loop is still queued.
func (q *queue) holds(r *rewind) bool {
	for _, it := range q.items {
		if it == Animation(r.twin) {
			return true
		}
		for _, step := range r.steps {
			if it == step {
				return true
			}
		}
	}
	return false
}

// cancel marks every running entry that matches. Loops waiting to start over
// are dropped when their closing step matches.
func (q *queue) cancel(match func(Animation) bool) int {
	n := 0
	for _, a := range q.items {
		if terminal(a) || !match(a) {
			continue
		}
		a.Cancel()
		n++
	}
	if n > 0 {
		q.dirty = true
	}
	kept := q.rewinds[:0]
	for _, r := range q.rewinds {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	clear(q.rewinds[len(kept):])
	q.rewinds = kept
	return n
}

func (q *queue) isAnimated(target any) bool {
	for _, a := range q.items {
		if !terminal(a) && a.IsObjectAnimated(target) {
			return true
		}
	}
	return false
}

// nextEvent walks the queue tracking the min and max time till the next event
// of its members and stops at the first blocking one, whose value wins.
func (q *queue) nextEvent(defaultCycle time.Duration) (time.Duration, error) {
	minETA, maxETA := Infinite, time.Duration(0)
	prevMin, prevMax := time.Duration(0), time.Duration(0)
	for _, a := range q.items {
		if terminal(a) {
			continue
		}
		eta := a.TimeTillNextEvent(prevMin, prevMax, defaultCycle)
		if eta < 0 {
			return 0, fmt.Errorf("%w: %v from %T", ErrNegativeInterval, eta, a)
		}
		if a.Blocking() {
			return eta, nil
		}
		minETA = min(minETA, eta)
		maxETA = max(maxETA, eta)
		prevMin, prevMax = minETA, maxETA
	}
	return minETA, nil
}
