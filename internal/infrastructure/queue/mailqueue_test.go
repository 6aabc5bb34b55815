package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingMailer struct {
	mu    sync.Mutex
	sent  []string
	errCh error
	done  chan struct{}
}

func newRecordingMailer(expected int) *recordingMailer {
	return &recordingMailer{done: make(chan struct{}, expected)}
}

func (m *recordingMailer) record(kind, to string) error {
	m.mu.Lock()
	m.sent = append(m.sent, kind+":"+to)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.errCh
}

func (m *recordingMailer) SendVerification(_ context.Context, to, _ string) error {
	return m.record("verification", to)
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, _ string) error {
	return m.record("reset", to)
}

func (m *recordingMailer) SendChangeConfirmation(_ context.Context, to, _ string) error {
	return m.record("confirmation", to)
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func TestMailDispatcher_DeliversAsync(t *testing.T) {
	mailer := newRecordingMailer(3)
	d := NewMailDispatcher(2, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	if err := d.SendVerification(context.Background(), "a@x.com", "tok"); err != nil {
		t.Fatalf("enqueue must not fail: %v", err)
	}
	if err := d.SendPasswordReset(context.Background(), "b@x.com", "CODE1234"); err != nil {
		t.Fatalf("enqueue must not fail: %v", err)
	}
	if err := d.SendChangeConfirmation(context.Background(), "c@x.com", "password"); err != nil {
		t.Fatalf("enqueue must not fail: %v", err)
	}

	waitFor(t, mailer.done, 3)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(mailer.sent))
	}
}

func TestMailDispatcher_DeliveryErrorDoesNotSurface(t *testing.T) {
	mailer := newRecordingMailer(1)
	mailer.errCh = errors.New("smtp down")
	d := NewMailDispatcher(1, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	if err := d.SendPasswordReset(context.Background(), "a@x.com", "CODE1234"); err != nil {
		t.Fatalf("enqueue must not surface delivery errors: %v", err)
	}
	waitFor(t, mailer.done, 1)
}

func TestMailDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	// Workers are never started, so the single buffer fills and stays full.
	d := NewMailDispatcher(1, newRecordingMailer(0), zerolog.Nop())

	finished := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			if err := d.SendChangeConfirmation(context.Background(), "a@x.com", "password"); err != nil {
				t.Errorf("enqueue must not fail: %v", err)
			}
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected %d buffered tasks, got %d", channelBuffer, got)
	}
}

func TestMailDispatcher_ShardIsStablePerRecipient(t *testing.T) {
	d := NewMailDispatcher(4, newRecordingMailer(0), zerolog.Nop())

	first := d.shardIndex("a@x.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("a@x.com"); got != first {
			t.Fatalf("shard changed between calls: %d vs %d", first, got)
		}
	}
}
