// Package queue runs notification mails off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/famcare/caregiving-api/internal/api/metrics"
	"github.com/famcare/caregiving-api/internal/infrastructure/mail"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// Deduper reports whether the mail with the given id is being handled for
// the first time. Distinct mails with the same text have distinct ids.
type Deduper interface {
	FirstSeen(ctx context.Context, id string) (bool, error)
}

// MailDispatcher implements ports.Notifier. Mails are routed to a fixed set
// of workers by hashing the recipient, so mails to one address are sent in
// the order they were queued. Notify never blocks: when the worker's buffer
// is full the mail is dropped and counted.
type MailDispatcher struct {
	workers []chan mail.Mail
	sender  mail.Sender
	dedup   Deduper
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Option customises a MailDispatcher.
type Option func(*MailDispatcher)

// WithDeduper suppresses redelivery of an already handled mail inside the
// deduper's window.
func WithDeduper(d Deduper) Option {
	return func(m *MailDispatcher) { m.dedup = d }
}

// WithBuffer sets the per-worker channel capacity.
func WithBuffer(size int) Option {
	return func(m *MailDispatcher) {
		if size <= 0 {
			return
		}
		for i := range m.workers {
			m.workers[i] = make(chan mail.Mail, size)
		}
	}
}

// NewMailDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, sender mail.Sender, log zerolog.Logger, opts ...Option) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan mail.Mail, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan mail.Mail, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Shutdown has drained their channel.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Notify queues a mail. It is safe for concurrent use and never fails the
// caller; ctx is not used once the mail is queued.
func (d *MailDispatcher) Notify(_ context.Context, to, subject, body string) {
	d.enqueue(mail.Mail{ID: uuid.NewString(), To: to, Subject: subject, Body: body})
}

// enqueue routes m to its recipient's worker without blocking.
func (d *MailDispatcher) enqueue(m mail.Mail) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(m, "dispatcher closed")
		return
	}

	idx := d.shardIndex(m.To)
	select {
	case d.workers[idx] <- m:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(m, "queue full")
	}
}

func (d *MailDispatcher) drop(m mail.Mail, reason string) {
	metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().Str("mail_id", m.ID).Str("to", m.To).Str("subject", m.Subject).Str("reason", reason).Msg("mail dropped")
}

// Shutdown stops accepting mails, lets workers drain what is queued and
// waits for them until ctx expires.
func (d *MailDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan mail.Mail) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, m)
		}
	}
}

func (d *MailDispatcher) deliver(ctx context.Context, workerID int, m mail.Mail) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if d.dedup != nil {
		first, err := d.dedup.FirstSeen(ctx, m.ID)
		switch {
		case err != nil:
			d.log.Warn().Err(err).Str("mail_id", m.ID).Msg("mail dedup unavailable, sending anyway")
		case !first:
			metrics.NotificationsTotal.WithLabelValues("deduplicated").Inc()
			d.log.Debug().Str("mail_id", m.ID).Str("to", m.To).Msg("mail already handled, skipped")
			return
		}
	}

	start := time.Now()
	err := d.sender.Send(ctx, m)
	metrics.NotificationSendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("mail_id", m.ID).
			Str("to", m.To).
			Str("subject", m.Subject).
			Int("worker_id", workerID).
			Msg("mail delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}
