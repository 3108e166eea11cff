package room

import "sync"

// Command is one queued player input, applied at the start of the next
// tick so all mutation happens on the tick goroutine.
type Command struct {
	PlayerID string
	Type     string

	// ActionID is set for action:perform.
	ActionID string
	// TargetX and TargetY are set for player:move.
	TargetX, TargetY float64
	// Text is set for player:speak.
	Text string
}

// inputQueue is a mutex-guarded FIFO bridging transport goroutines to the
// tick loop.
type inputQueue struct {
	mu    sync.Mutex
	items []Command
}

func (q *inputQueue) push(cmd Command) {
	q.mu.Lock()
	q.items = append(q.items, cmd)
	q.mu.Unlock()
}

// drain removes and returns every queued command in arrival order.
func (q *inputQueue) drain() []Command {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}
