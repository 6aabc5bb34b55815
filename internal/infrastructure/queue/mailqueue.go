// Package queue provides a fire-and-forget wrapper around the synchronous
// mailer. Registration keeps the synchronous sender so a failed
// verification email can roll the account back; everything else goes
// through here.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/api/metrics"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

type mailTask struct {
	to   string
	send func(ctx context.Context) error
}

// MailDispatcher routes email tasks to a fixed set of workers using
// consistent hashing on the recipient, so emails to one address keep
// their order. It implements ports.Mailer; enqueueing never fails, and
// delivery errors are logged by the worker.
type MailDispatcher struct {
	workers []chan mailTask
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded
// workers wrapping the given synchronous mailer. If numWorkers <= 0,
// defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan mailTask, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan mailTask, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

func (d *MailDispatcher) SendVerification(_ context.Context, to, token string) error {
	d.enqueue(mailTask{to: to, send: func(ctx context.Context) error {
		return d.mailer.SendVerification(ctx, to, token)
	}})
	return nil
}

func (d *MailDispatcher) SendPasswordReset(_ context.Context, to, code string) error {
	d.enqueue(mailTask{to: to, send: func(ctx context.Context) error {
		return d.mailer.SendPasswordReset(ctx, to, code)
	}})
	return nil
}

func (d *MailDispatcher) SendChangeConfirmation(_ context.Context, to, change string) error {
	d.enqueue(mailTask{to: to, send: func(ctx context.Context) error {
		return d.mailer.SendChangeConfirmation(ctx, to, change)
	}})
	return nil
}

// enqueue hands a task to the worker responsible for its recipient. When
// the worker's buffer is full the task is dropped and logged rather than
// blocking the request goroutine behind a slow SMTP peer.
func (d *MailDispatcher) enqueue(task mailTask) {
	idx := d.shardIndex(task.to)
	select {
	case d.workers[idx] <- task:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Error().
			Str("to", task.to).
			Int("worker_id", idx).
			Msg("mail queue full, dropping email")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan mailTask) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := task.send(ctx); err != nil {
				d.log.Error().Err(err).
					Str("to", task.to).
					Int("worker_id", id).
					Msg("async email delivery failed")
			}
		}
	}
}
