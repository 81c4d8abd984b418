package alert

// queue is a fixed-capacity FIFO holding events awaiting dispatch. When
// full, the oldest event is overwritten: a stale alert is worth less than
// a fresh one. Not safe for concurrent use — caller must synchronize.
type queue struct {
	buf      []Event
	capacity int
	head     int // next write position
	count    int
}

func newQueue(capacity int) *queue {
	return &queue{
		buf:      make([]Event, capacity),
		capacity: capacity,
	}
}

// push adds an event, returning true if it displaced an undelivered one.
func (q *queue) push(event Event) bool {
	dropped := q.count == q.capacity
	q.buf[q.head] = event
	q.head = (q.head + 1) % q.capacity
	if !dropped {
		q.count++
	}
	return dropped
}

// drainAll removes and returns all queued events, oldest first.
func (q *queue) drainAll() []Event {
	if q.count == 0 {
		return nil
	}

	result := make([]Event, q.count)
	// Oldest item is at (head - count) mod capacity
	start := (q.head - q.count + q.capacity) % q.capacity
	for i := 0; i < q.count; i++ {
		result[i] = q.buf[(start+i)%q.capacity]
	}

	q.count = 0
	q.head = 0
	return result
}

func (q *queue) len() int {
	return q.count
}
