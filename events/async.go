package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"taskboard-api/domain"
)

// AsyncOptions sizes an AsyncPublisher.
type AsyncOptions struct {
	Workers        int
	Buffer         int
	PublishTimeout time.Duration
	HandoffTimeout time.Duration
}

func (o AsyncOptions) withDefaults() AsyncOptions {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Buffer <= 0 {
		o.Buffer = 1024
	}
	if o.PublishTimeout <= 0 {
		o.PublishTimeout = 30 * time.Second
	}
	return o
}

// AsyncPublisher hands events to a pool of workers that deliver them through
// the wrapped publisher, so request handlers never wait on the queue. When
// the buffer stays full for longer than the handoff timeout the event is
// dropped and logged.
type AsyncPublisher struct {
	next domain.Publisher
	log  *log.Logger
	opts AsyncOptions

	mu     sync.RWMutex
	jobs   chan domain.Event
	closed bool
	wg     sync.WaitGroup
}

// NewAsyncPublisher starts the workers. Close must be called to drain them.
func NewAsyncPublisher(next domain.Publisher, logger *log.Logger, opts AsyncOptions) *AsyncPublisher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	opts = opts.withDefaults()
	p := &AsyncPublisher{
		next: next,
		log:  logger,
		opts: opts,
		jobs: make(chan domain.Event, opts.Buffer),
	}
	for i := 0; i < opts.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	logger.WithFields(log.Fields{"workers": opts.Workers, "buffer": opts.Buffer}).Info("event publisher started")
	return p
}

func (p *AsyncPublisher) worker(id int) {
	defer p.wg.Done()
	for ev := range p.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), p.opts.PublishTimeout)
		err := p.next.Publish(ctx, ev)
		cancel()
		if err != nil {
			p.log.WithError(err).WithFields(log.Fields{"event": ev.ID, "type": ev.Type, "worker": id}).Error("event delivery failed")
		}
	}
}

// Publish queues ev for delivery. It only fails when the event could not be
// handed to a worker.
func (p *AsyncPublisher) Publish(ctx context.Context, ev domain.Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.jobs <- ev:
		return nil
	default:
	}
	if p.opts.HandoffTimeout <= 0 {
		return ErrBufferFull
	}

	timer := time.NewTimer(p.opts.HandoffTimeout)
	defer timer.Stop()
	select {
	case p.jobs <- ev:
		return nil
	case <-timer.C:
		return ErrBufferFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits until the queued ones are delivered
// or ctx expires.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
