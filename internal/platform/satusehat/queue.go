package satusehat

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrJobNotFound is returned when a sync job does not exist.
var ErrJobNotFound = errors.New("satusehat: job not found")

// Job is one queued resource push. The idempotency key ties a job to the
// local entity and event that produced it, so re-enqueueing the same event
// is a no-op.
type Job struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	ResourceType   string          `db:"resource_type" json:"resourceType"` // Patient|Encounter
	IdempotencyKey string          `db:"idempotency_key" json:"idempotencyKey"`
	Payload        json.RawMessage `db:"payload" json:"payload"`
	Status         string          `db:"status" json:"status"` // pending|success|failed
	RetryCount     int             `db:"retry_count" json:"retryCount"`
	LastError      string          `db:"last_error" json:"lastError"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

// Job status values.
const (
	JobPending = "pending"
	JobSuccess = "success"
	JobFailed  = "failed"
)

// JobStore is the persistence contract for the sync queue.
type JobStore interface {
	// Enqueue inserts the job unless one with the same idempotency key
	// already exists; then it returns the existing job untouched.
	Enqueue(ctx context.Context, job *Job) error
	// Pending returns up to limit pending jobs, oldest first.
	Pending(ctx context.Context, limit int) ([]*Job, error)
	MarkSuccess(ctx context.Context, id uuid.UUID) error
	// MarkFailure bumps the retry counter and records the error. Once the
	// counter reaches maxRetries the job moves to failed and is not
	// retried again.
	MarkFailure(ctx context.Context, id uuid.UUID, cause string, maxRetries int) error
	// Counts reports how many jobs sit in each status.
	Counts(ctx context.Context) (map[string]int, error)
}
