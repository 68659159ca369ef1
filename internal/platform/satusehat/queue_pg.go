package satusehat

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgStore struct{ pool *pgxpool.Pool }

func NewPGStore(pool *pgxpool.Pool) JobStore {
	return &pgStore{pool: pool}
}

func (s *pgStore) Enqueue(ctx context.Context, job *Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = JobPending
	// ON CONFLICT DO NOTHING makes re-enqueueing the same event a no-op;
	// the RETURNING then yields no row, so we load the existing job.
	err := s.pool.QueryRow(ctx, `
		INSERT INTO satusehat_job (id, resource_type, idempotency_key, payload, status)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING created_at, updated_at`,
		job.ID, job.ResourceType, job.IdempotencyKey, job.Payload, job.Status).
		Scan(&job.CreatedAt, &job.UpdatedAt)
	if err == nil {
		return nil
	}
	return s.pool.QueryRow(ctx, `
		SELECT id, resource_type, idempotency_key, payload, status, retry_count,
			last_error, created_at, updated_at
		FROM satusehat_job WHERE idempotency_key = $1`, job.IdempotencyKey).
		Scan(&job.ID, &job.ResourceType, &job.IdempotencyKey, &job.Payload,
			&job.Status, &job.RetryCount, &job.LastError, &job.CreatedAt,
			&job.UpdatedAt)
}

func (s *pgStore) Pending(ctx context.Context, limit int) ([]*Job, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, resource_type, idempotency_key, payload, status, retry_count,
			last_error, created_at, updated_at
		FROM satusehat_job
		WHERE status = $1
		ORDER BY created_at LIMIT $2`, JobPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.ResourceType, &j.IdempotencyKey,
			&j.Payload, &j.Status, &j.RetryCount, &j.LastError,
			&j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &j)
	}
	return out, rows.Err()
}

func (s *pgStore) MarkSuccess(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE satusehat_job SET status=$2, last_error='', updated_at=NOW()
		WHERE id = $1`, id, JobSuccess)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (s *pgStore) MarkFailure(ctx context.Context, id uuid.UUID, cause string, maxRetries int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE satusehat_job SET
			retry_count = retry_count + 1,
			last_error = $2,
			status = CASE WHEN retry_count + 1 >= $3 THEN $4 ELSE status END,
			updated_at = NOW()
		WHERE id = $1`, id, cause, maxRetries, JobFailed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (s *pgStore) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM satusehat_job GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{JobPending: 0, JobSuccess: 0, JobFailed: 0}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
