package docstore

import "sync"

// mailbox delivers snapshots to one subscriber in order, on its own goroutine,
// so a slow callback never blocks writers.
type mailbox struct {
	mu     sync.Mutex
	queue  []func()
	signal chan struct{}
	closed bool
}

func newMailbox() *mailbox {
	m := &mailbox{
		signal: make(chan struct{}, 1),
	}
	go m.run()
	return m
}

func (m *mailbox) post(fn func()) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, fn)
	select {
	case m.signal <- struct{}{}:
	default:
	}
	m.mu.Unlock()
}

func (m *mailbox) close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.queue = nil
	close(m.signal)
	m.mu.Unlock()
}

func (m *mailbox) run() {
	for range m.signal {
		for {
			m.mu.Lock()
			if m.closed || len(m.queue) == 0 {
				m.mu.Unlock()
				break
			}
			fn := m.queue[0]
			m.queue = m.queue[1:]
			m.mu.Unlock()
			fn()
		}
	}
}
