package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/ribophase/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if err := q.Enqueue(ctx, model.Job{Seq: 1, Coverage: []int{1, 0, 0}}); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	job := <-q.Dequeue(ctx)
	if job.Seq != 1 {
		t.Errorf("expected job 1, got %d", job.Seq)
	}
}

func TestInMemoryQueue_BlocksWhenFull(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if err := q.Enqueue(ctx, model.Job{Seq: 1}); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}

	// A second enqueue waits until the deadline.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(short, model.Job{Seq: 2})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	// Draining makes room for a blocked producer.
	done := make(chan error, 1)
	go func() { done <- q.Enqueue(ctx, model.Job{Seq: 3}) }()

	jobs := q.Dequeue(ctx)
	if j := <-jobs; j.Seq != 1 {
		t.Errorf("expected job 1, got %d", j.Seq)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected blocked enqueue to succeed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked enqueue never completed")
	}
	if j := <-jobs; j.Seq != 3 {
		t.Errorf("expected job 3, got %d", j.Seq)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	for i := int64(0); i < 3; i++ {
		if err := q.Enqueue(ctx, model.Job{Seq: i}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}

	if err := q.Enqueue(ctx, model.Job{Seq: 9}); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}

	// Queued jobs are still delivered, in order, then the channel closes.
	var got []int64
	for j := range q.Dequeue(ctx) {
		got = append(got, j.Seq)
	}
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("expected [0 1 2], got %v", got)
	}
}

func TestInMemoryQueue_DefaultCapacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(0))
	if q.capacity != defaultQueueCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultQueueCapacity, q.capacity)
	}
}
