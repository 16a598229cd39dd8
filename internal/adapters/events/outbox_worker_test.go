package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
)

type outboxState struct {
	rec          ports.OutboxRecord
	published    bool
	deadLettered bool
	claimToken   string
}

type memOutbox struct {
	mu   sync.Mutex
	rows []*outboxState
}

func (m *memOutbox) add(eventType string, retries int) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.rows = append(m.rows, &outboxState{rec: ports.OutboxRecord{
		OutboxID:     id,
		EventType:    eventType,
		PartitionKey: "schedule-1",
		Payload:      []byte(`{"booking_id":"b1"}`),
		RetryCount:   retries,
		CreatedAt:    time.Now().UTC(),
	}})
	return id
}

func (m *memOutbox) find(id uuid.UUID) *outboxState {
	for _, row := range m.rows {
		if row.rec.OutboxID == id {
			return row
		}
	}
	return nil
}

func (m *memOutbox) Enqueue(context.Context, ports.OutboxEvent) error { return nil }

func (m *memOutbox) ClaimUnpublished(_ context.Context, limit int, claimToken string, _ time.Time) ([]ports.OutboxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ports.OutboxRecord
	for _, row := range m.rows {
		if len(out) == limit {
			break
		}
		if row.published || row.deadLettered || row.claimToken != "" {
			continue
		}
		row.claimToken = claimToken
		out = append(out, row.rec)
	}
	return out, nil
}

func (m *memOutbox) settle(id uuid.UUID, claimToken string, fn func(*outboxState)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.find(id)
	if row == nil || row.claimToken != claimToken {
		return errors.New("lease lost")
	}
	fn(row)
	row.claimToken = ""
	return nil
}

func (m *memOutbox) MarkPublished(_ context.Context, id uuid.UUID, claimToken string, _ time.Time) error {
	return m.settle(id, claimToken, func(s *outboxState) { s.published = true })
}

func (m *memOutbox) MarkFailed(_ context.Context, id uuid.UUID, claimToken, errMsg string, _ time.Time) error {
	return m.settle(id, claimToken, func(s *outboxState) {
		s.rec.RetryCount++
		s.rec.LastError = errMsg
	})
}

func (m *memOutbox) MarkDeadLettered(_ context.Context, id uuid.UUID, claimToken, errMsg string, _ time.Time) error {
	return m.settle(id, claimToken, func(s *outboxState) {
		s.rec.RetryCount++
		s.rec.LastError = errMsg
		s.deadLettered = true
	})
}

type published struct {
	eventType    string
	partitionKey string
}

type recordingPublisher struct {
	mu       sync.Mutex
	sent     []published
	failWith error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ []byte, partitionKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.sent = append(p.sent, published{eventType: eventType, partitionKey: partitionKey})
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessOncePublishesWithPartitionKey(t *testing.T) {
	t.Parallel()

	outbox := &memOutbox{}
	first := outbox.add("booking.created", 0)
	second := outbox.add("booking.cancelled", 0)
	pub := &recordingPublisher{}
	worker := NewOutboxWorker(quietLogger(), outbox, pub, time.Second, 10, time.Minute, 3)

	result, err := worker.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("process once: %v", err)
	}
	if result.Claimed != 2 || result.Published != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(pub.sent) != 2 || pub.sent[0].eventType != "booking.created" || pub.sent[1].eventType != "booking.cancelled" {
		t.Fatalf("unexpected publish order: %+v", pub.sent)
	}
	if pub.sent[0].partitionKey != "schedule-1" {
		t.Fatalf("expected partition key to be forwarded, got %q", pub.sent[0].partitionKey)
	}
	if !outbox.find(first).published || !outbox.find(second).published {
		t.Fatalf("expected both rows marked published")
	}

	again, err := worker.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if again.Claimed != 0 {
		t.Fatalf("published rows must not be claimed again, got %+v", again)
	}
}

func TestProcessOnceRetriesThenDeadLetters(t *testing.T) {
	t.Parallel()

	outbox := &memOutbox{}
	id := outbox.add("booking.created", 0)
	pub := &recordingPublisher{failWith: errors.New("broker unavailable")}
	worker := NewOutboxWorker(quietLogger(), outbox, pub, time.Second, 10, time.Minute, 2)

	result, err := worker.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if result.Failed != 1 || result.DeadLettered != 0 {
		t.Fatalf("expected a retryable failure, got %+v", result)
	}
	row := outbox.find(id)
	if row.rec.RetryCount != 1 || row.rec.LastError != "broker unavailable" || row.deadLettered {
		t.Fatalf("unexpected row after failure: %+v", row)
	}

	result, err = worker.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if result.DeadLettered != 1 {
		t.Fatalf("expected the row to be dead-lettered, got %+v", result)
	}
	if !outbox.find(id).deadLettered {
		t.Fatalf("expected dead-lettered row")
	}
}

func TestProcessOnceDeadLettersExhaustedRowsWithoutPublishing(t *testing.T) {
	t.Parallel()

	outbox := &memOutbox{}
	id := outbox.add("booking.status_changed", 5)
	pub := &recordingPublisher{}
	worker := NewOutboxWorker(quietLogger(), outbox, pub, time.Second, 10, time.Minute, 5)

	result, err := worker.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("process once: %v", err)
	}
	if result.DeadLettered != 1 || len(pub.sent) != 0 {
		t.Fatalf("expected dead letter without publish, got %+v sent=%d", result, len(pub.sent))
	}
	if !outbox.find(id).deadLettered {
		t.Fatalf("expected dead-lettered row")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	outbox := &memOutbox{}
	outbox.add("user.registered", 0)
	pub := &recordingPublisher{}
	worker := NewOutboxWorker(quietLogger(), outbox, pub, 10*time.Millisecond, 10, time.Minute, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		pub.mu.Lock()
		n := len(pub.sent)
		pub.mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("worker never published")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop")
	}
}

func TestKafkaPublisherTopicMapping(t *testing.T) {
	t.Parallel()

	if _, err := NewKafkaPublisher(nil, nil); err == nil {
		t.Fatalf("expected error without brokers")
	}
	pub, err := NewKafkaPublisher([]string{"localhost:9092"}, nil)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	defer pub.Close()
	if got := pub.topicFor("booking.created"); got != "easysewa.bookings" {
		t.Fatalf("unexpected topic %q", got)
	}
	if got := pub.topicFor("custom.event"); got != "custom.event" {
		t.Fatalf("unmapped events should use their own name, got %q", got)
	}
}
