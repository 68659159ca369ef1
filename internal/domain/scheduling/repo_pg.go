package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simrs/simrs/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type pgRepo struct{ pool *pgxpool.Pool }

func NewPGRepo(pool *pgxpool.Pool) Repository {
	return &pgRepo{pool: pool}
}

func (r *pgRepo) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const appointmentCols = `id, patient_id, doctor_id, date, time, polyclinic, complaint,
	status, queue_number, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
		&a.Polyclinic, &a.Complaint, &a.Status, &a.QueueNumber,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

// Create runs the slot check, queue assignment and insert in one transaction.
// A partial unique index on (doctor_id, date, time) for scheduled rows backs
// the slot check against concurrent inserts.
func (r *pgRepo) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		var taken bool
		err := r.conn(ctx).QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM appointment
				WHERE doctor_id = $1 AND date = $2 AND time = $3 AND status = $4
			)`, a.DoctorID, a.Date, a.Time, StatusScheduled).Scan(&taken)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}

		err = r.conn(ctx).QueryRow(ctx, `
			SELECT COALESCE(MAX(queue_number), 0) + 1 FROM appointment
			WHERE doctor_id = $1 AND date = $2`,
			a.DoctorID, a.Date).Scan(&a.QueueNumber)
		if err != nil {
			return err
		}

		err = r.conn(ctx).QueryRow(ctx, `
			INSERT INTO appointment (id, patient_id, doctor_id, date, time,
				polyclinic, complaint, status, queue_number)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING created_at, updated_at`,
			a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Polyclinic,
			a.Complaint, a.Status, a.QueueNumber).
			Scan(&a.CreatedAt, &a.UpdatedAt)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return err
	})
}

func (r *pgRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointment WHERE id = $1`, id))
}

func (r *pgRepo) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET date=$2, time=$3, polyclinic=$4, complaint=$5,
			status=$6, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Date, a.Time, a.Polyclinic, a.Complaint, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) List(ctx context.Context, f Filter) ([]*Appointment, error) {
	where := ""
	var args []interface{}
	add := func(clause string, val interface{}) {
		args = append(args, val)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}

	if f.Date != "" {
		add("date = $%d", f.Date)
	}
	if f.DoctorID != nil {
		add("doctor_id = $%d", *f.DoctorID)
	}
	if f.PatientID != nil {
		add("patient_id = $%d", *f.PatientID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+appointmentCols+` FROM appointment`+where+` ORDER BY date, queue_number`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *pgRepo) CountByDate(ctx context.Context, date time.Time) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE date = $1 AND status <> $2`,
		date.Format("2006-01-02"), StatusCancelled).Scan(&n)
	return n, err
}
