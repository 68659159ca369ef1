package satusehat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Pusher is what the worker needs from the FHIR client.
type Pusher interface {
	Push(ctx context.Context, resourceType string, payload json.RawMessage) error
}

// Worker drains the sync queue in the background. Each tick it picks a batch
// of pending jobs and pushes them; a failed push bumps the job's retry
// counter and leaves it pending for the next tick.
type Worker struct {
	store      JobStore
	client     Pusher
	interval   time.Duration
	batchSize  int
	maxRetries int
	log        zerolog.Logger
}

func NewWorker(store JobStore, client Pusher, interval time.Duration, log zerolog.Logger) *Worker {
	return &Worker{
		store:      store,
		client:     client,
		interval:   interval,
		batchSize:  50,
		maxRetries: 5,
		log:        log.With().Str("component", "satusehat_worker").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info().Dur("interval", w.interval).Msg("satusehat sync worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("satusehat sync worker stopped")
			return
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain processes one batch of pending jobs.
func (w *Worker) Drain(ctx context.Context) {
	jobs, err := w.store.Pending(ctx, w.batchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("load pending jobs")
		return
	}
	for _, job := range jobs {
		if err := w.client.Push(ctx, job.ResourceType, job.Payload); err != nil {
			w.log.Warn().Err(err).
				Str("job_id", job.ID.String()).
				Str("resource_type", job.ResourceType).
				Int("retry_count", job.RetryCount+1).
				Msg("push failed")
			if err := w.store.MarkFailure(ctx, job.ID, err.Error(), w.maxRetries); err != nil {
				w.log.Error().Err(err).Str("job_id", job.ID.String()).Msg("mark failure")
			}
			continue
		}
		if err := w.store.MarkSuccess(ctx, job.ID); err != nil {
			w.log.Error().Err(err).Str("job_id", job.ID.String()).Msg("mark success")
			continue
		}
		w.log.Info().
			Str("job_id", job.ID.String()).
			Str("resource_type", job.ResourceType).
			Msg("resource pushed")
	}
}
