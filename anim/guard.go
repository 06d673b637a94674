package anim

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// guard detects a sequencer being driven from two goroutines at once. Nested
// calls from the goroutine that holds it are counted.
type guard struct {
	enabled bool

	mu    sync.Mutex
	owner uint64
	depth int
}

func (g *guard) enter() {
	if !g.enabled {
		return
	}
	id := goroutineID()
	g.mu.Lock()
	if g.depth > 0 && g.owner != id {
		g.mu.Unlock()
		panic(ErrConcurrentAccess)
	}
	g.owner = id
	g.depth++
	g.mu.Unlock()
}

func (g *guard) exit() {
	if !g.enabled {
		return
	}
	g.mu.Lock()
	if g.depth > 0 {
		g.depth--
	}
	if g.depth == 0 {
		g.owner = 0
	}
	g.mu.Unlock()
}

// goroutineID parses the "goroutine N [" header of the current stack.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
