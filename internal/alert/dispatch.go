package alert

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher drains queued events to a sink on its own goroutine so the
// sampling loop never waits on the network. Enqueue is non-blocking; a
// failed delivery is logged and dropped, not retried.
type Dispatcher struct {
	mu   sync.Mutex
	q    *queue
	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	sink    Sink
	timeout time.Duration
	log     *zap.Logger
}

// NewDispatcher starts a dispatcher delivering to sink, with the given
// queue capacity and per-delivery timeout.
func NewDispatcher(sink Sink, capacity int, timeout time.Duration, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		q:       newQueue(capacity),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		sink:    sink,
		timeout: timeout,
		log:     log,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Enqueue hands an event to the dispatcher. Never blocks; if the queue is
// full the oldest undelivered event is displaced.
func (d *Dispatcher) Enqueue(event Event) {
	d.mu.Lock()
	dropped := d.q.push(event)
	d.mu.Unlock()

	if dropped {
		d.log.Warn("alert queue full, dropped oldest event")
	}

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Depth returns the number of events awaiting delivery.
func (d *Dispatcher) Depth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.q.len()
}

// Close delivers anything still queued, then stops the dispatcher and
// closes the sink.
func (d *Dispatcher) Close() error {
	close(d.done)
	d.wg.Wait()
	return d.sink.Close()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case <-d.done:
			d.deliverAll()
			return
		case <-d.wake:
			d.deliverAll()
		}
	}
}

func (d *Dispatcher) deliverAll() {
	d.mu.Lock()
	events := d.q.drainAll()
	d.mu.Unlock()

	for _, event := range events {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.sink.Deliver(ctx, event)
		cancel()

		if err != nil {
			d.log.Error("alert delivery failed, dropping event",
				zap.String("type", event.Type()),
				zap.Error(err))
			continue
		}
		d.log.Info("alert delivered",
			zap.String("type", event.Type()),
			zap.String("device_id", event.DeviceID))
	}
}
