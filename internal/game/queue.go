package game

import "sync"

// Queue is an unbounded FIFO of commands. Push never blocks; the consumer
// waits on Ready and takes everything pending with Drain.
type Queue struct {
	mu      sync.Mutex
	pending []Command
	ready   chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends a command and wakes the consumer.
func (q *Queue) Push(cmd Command) {
	q.mu.Lock()
	q.pending = append(q.pending, cmd)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after a Push. A signal may arrive with nothing left to
// drain if an earlier Drain already took the command.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Drain removes and returns all pending commands in arrival order.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	cmds := q.pending
	q.pending = nil
	return cmds
}
