package notify

import (
	"context"
	"sync"
	"time"

	"pitch-booking/pkg/metrics"

	"go.uber.org/zap"
)

type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
	SendTimeout time.Duration
}

// Dispatcher delivers messages on a fixed pool of workers, retrying failed sends with exponential backoff.
type Dispatcher struct {
	sender Sender
	opts   Options
	log    *zap.Logger

	jobs   chan Message
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, opts Options, log *zap.Logger) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 64
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		sender: sender,
		opts:   opts,
		log:    log.With(zap.String("component", "notify")),
		jobs:   make(chan Message, opts.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Notify enqueues msg. A full or closed queue drops it with a warning.
func (d *Dispatcher) Notify(msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("Dispatcher closed, notification dropped", zap.String("kind", string(msg.Kind)))
		metrics.Notification(string(msg.Kind), "dropped")
		return
	}

	select {
	case d.jobs <- msg:
	default:
		d.log.Warn("Notification queue full, dropping message",
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To),
		)
		metrics.Notification(string(msg.Kind), "dropped")
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.jobs {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	var err error
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(d.ctx, d.opts.SendTimeout)
		err = d.sender.Send(ctx, msg)
		cancel()
		if err == nil {
			metrics.Notification(string(msg.Kind), "sent")
			return
		}

		if attempt == d.opts.MaxAttempts {
			break
		}

		wait := d.opts.Backoff << (attempt - 1)
		d.log.Debug("Notification send failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
		)

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-d.ctx.Done():
			timer.Stop()
			d.log.Warn("Notification abandoned on shutdown", zap.String("kind", string(msg.Kind)))
			metrics.Notification(string(msg.Kind), "failed")
			return
		}
	}

	d.log.Error("Notification failed",
		zap.Error(err),
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.Int("attempts", d.opts.MaxAttempts),
	)
	metrics.Notification(string(msg.Kind), "failed")
}

// Close stops intake and waits for queued messages. When ctx expires first, pending retries are abandoned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
