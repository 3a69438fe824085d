package amqp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/goleak"

	"github.com/starford/tablero/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	mu     sync.Mutex
	got    []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeChannel) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func TestPublishRoutesByCollectionAndKind(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "tablero", nil)

	at := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), models.Change{
		Collection: models.CollectionOperations, Kind: models.ChangeDeleted, ID: "op-7", At: at,
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(ch.got) != 1 {
		t.Fatalf("published %d messages, want 1", len(ch.got))
	}
	got := ch.got[0]
	if got.exchange != "tablero" || got.key != "operaciones.deleted" {
		t.Errorf("exchange/key = %s/%s", got.exchange, got.key)
	}
	if got.msg.ContentType != "application/json" || got.msg.DeliveryMode != amqp091.Persistent {
		t.Errorf("unexpected publishing properties: %+v", got.msg)
	}
	msg, err := ChangeMessageFromJSON(got.msg.Body)
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if msg.ID != "op-7" || !msg.Timestamp.Equal(at) {
		t.Errorf("body = %+v", msg)
	}
}

func TestPublishError(t *testing.T) {
	p := newPublisher(&fakeChannel{err: errors.New("channel closed")}, "tablero", nil)
	if err := p.Publish(context.Background(), models.Change{Collection: "notas", Kind: "created"}); err == nil {
		t.Error("expected error")
	}
}

func TestRunDrainsQueue(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "tablero", nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for _, id := range []string{"a", "b", "c"} {
		p.Listen(models.Change{Collection: models.CollectionNotes, Kind: models.ChangeCreated, ID: id})
	}

	deadline := time.Now().Add(time.Second)
	for ch.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("published %d messages, want 3", ch.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestListenDropsWhenFull(t *testing.T) {
	p := newPublisher(&fakeChannel{}, "tablero", nil)
	for range queueSize + 10 {
		p.Listen(models.Change{Collection: models.CollectionNotes, Kind: models.ChangeUpdated})
	}
	if got := len(p.queue); got != queueSize {
		t.Errorf("queued %d, want %d", got, queueSize)
	}
}

func TestCloseClosesChannel(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "tablero", nil)
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if !ch.closed {
		t.Error("channel not closed")
	}
}
