package satusehat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newJob(key string) *Job {
	payload, _ := PatientResource("3171234567890001", "Budi Santoso", "male", "1990-05-01")
	return &Job{ResourceType: "Patient", IdempotencyKey: key, Payload: payload}
}

func TestEnqueue_IdempotentByKey(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	first := newJob("patient:abc:create")
	if err := store.Enqueue(ctx, first); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	dup := newJob("patient:abc:create")
	if err := store.Enqueue(ctx, dup); err != nil {
		t.Fatalf("enqueue dup: %v", err)
	}
	if dup.ID != first.ID {
		t.Errorf("duplicate enqueue must return the existing job")
	}

	pending, _ := store.Pending(ctx, 10)
	if len(pending) != 1 {
		t.Errorf("expected 1 pending job, got %d", len(pending))
	}
}

type stubPusher struct {
	fail  int // fail this many pushes before succeeding
	calls int
}

func (p *stubPusher) Push(_ context.Context, _ string, _ json.RawMessage) error {
	p.calls++
	if p.calls <= p.fail {
		return errors.New("gateway timeout")
	}
	return nil
}

func TestDrain_MarksSuccess(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	store.Enqueue(ctx, newJob("patient:1"))
	store.Enqueue(ctx, newJob("patient:2"))

	w := NewWorker(store, &stubPusher{}, time.Minute, zerolog.Nop())
	w.Drain(ctx)

	counts, _ := store.Counts(ctx)
	if counts[JobSuccess] != 2 || counts[JobPending] != 0 {
		t.Errorf("expected 2 success, got %+v", counts)
	}
}

func TestDrain_RetriesUntilLimit(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	store.Enqueue(ctx, newJob("patient:1"))

	pusher := &stubPusher{fail: 100}
	w := NewWorker(store, pusher, time.Minute, zerolog.Nop())

	// stays pending while under the retry limit
	for i := 0; i < w.maxRetries-1; i++ {
		w.Drain(ctx)
	}
	counts, _ := store.Counts(ctx)
	if counts[JobPending] != 1 {
		t.Fatalf("job must stay pending before the limit, got %+v", counts)
	}

	w.Drain(ctx)
	counts, _ = store.Counts(ctx)
	if counts[JobFailed] != 1 {
		t.Errorf("job must fail at the retry limit, got %+v", counts)
	}

	// failed jobs are not picked up again
	calls := pusher.calls
	w.Drain(ctx)
	if pusher.calls != calls {
		t.Errorf("failed job must not be retried")
	}
}

func TestDrain_RecoversAfterTransientFailure(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	store.Enqueue(ctx, newJob("encounter:1"))

	pusher := &stubPusher{fail: 2}
	w := NewWorker(store, pusher, time.Minute, zerolog.Nop())
	w.Drain(ctx)
	w.Drain(ctx)
	w.Drain(ctx)

	counts, _ := store.Counts(ctx)
	if counts[JobSuccess] != 1 {
		t.Errorf("expected recovery to success, got %+v", counts)
	}
}

func TestPatientResource_CarriesNIK(t *testing.T) {
	payload, err := PatientResource("3171234567890001", "Budi", "male", "1990-05-01")
	if err != nil {
		t.Fatalf("build resource: %v", err)
	}
	var res struct {
		ResourceType string `json:"resourceType"`
		Identifier   []struct {
			System string `json:"system"`
			Value  string `json:"value"`
		} `json:"identifier"`
	}
	if err := json.Unmarshal(payload, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.ResourceType != "Patient" {
		t.Errorf("resourceType = %s", res.ResourceType)
	}
	if len(res.Identifier) != 1 || res.Identifier[0].Value != "3171234567890001" {
		t.Errorf("identifier not carried: %+v", res.Identifier)
	}
}
