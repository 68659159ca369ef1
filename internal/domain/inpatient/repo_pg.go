package inpatient

import (
	"context"
	"errors"

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

const roomCols = `id, number, ward, type, bed_count, cost_per_day, created_at`
const bedCols = `id, room_id, number, status, created_at, updated_at`
const admissionCols = `id, patient_id, doctor_id, bed_id, admission_date, admission_time,
	discharge_date, discharge_time, status, diagnosis, created_at, updated_at`

func scanRoom(row pgx.Row) (*Room, error) {
	var rm Room
	err := row.Scan(&rm.ID, &rm.Number, &rm.Ward, &rm.Type, &rm.BedCount,
		&rm.CostPerDay, &rm.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &rm, err
}

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.RoomID, &b.Number, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &b, err
}

func scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.BedID, &a.AdmissionDate,
		&a.AdmissionTime, &a.DischargeDate, &a.DischargeTime, &a.Status,
		&a.Diagnosis, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *pgRepo) CreateRoom(ctx context.Context, rm *Room) error {
	rm.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO room (id, number, ward, type, bed_count, cost_per_day)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		rm.ID, rm.Number, rm.Ward, rm.Type, rm.BedCount, rm.CostPerDay).
		Scan(&rm.CreatedAt)
}

func (r *pgRepo) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	return scanRoom(r.conn(ctx).QueryRow(ctx,
		`SELECT `+roomCols+` FROM room WHERE id = $1`, id))
}

func (r *pgRepo) ListRooms(ctx context.Context) ([]*Room, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+roomCols+` FROM room ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rm)
	}
	return items, rows.Err()
}

func (r *pgRepo) CreateBed(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	if b.Status == "" {
		b.Status = BedAvailable
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bed (id, room_id, number, status)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		b.ID, b.RoomID, b.Number, b.Status).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *pgRepo) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx,
		`SELECT `+bedCols+` FROM bed WHERE id = $1`, id))
}

func (r *pgRepo) ListRoomBeds(ctx context.Context, roomID uuid.UUID) ([]*Bed, error) {
	if _, err := r.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bedCols+` FROM bed WHERE room_id = $1 ORDER BY number`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *pgRepo) ListAvailableBeds(ctx context.Context) ([]*Bed, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bedCols+` FROM bed WHERE status = $1 ORDER BY number`, BedAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// ClaimBed uses a conditional UPDATE so the available check and the status
// flip happen in one statement. A second admit racing on the same bed sees
// zero rows affected and gets ErrBedUnavailable.
func (r *pgRepo) ClaimBed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3`,
		id, BedOccupied, BedAvailable)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetBed(ctx, id); err != nil {
			return err
		}
		return ErrBedUnavailable
	}
	return nil
}

func (r *pgRepo) ReleaseBed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, BedAvailable)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) SetBedStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status <> $3`,
		id, status, BedOccupied)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetBed(ctx, id); err != nil {
			return err
		}
		return ErrBedUnavailable
	}
	return nil
}

func (r *pgRepo) Occupancy(ctx context.Context) ([]TypeOccupancy, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT rm.type,
			COUNT(b.id),
			COUNT(b.id) FILTER (WHERE b.status = $1)
		FROM bed b
		JOIN room rm ON rm.id = b.room_id
		GROUP BY rm.type
		ORDER BY rm.type`, BedOccupied)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeOccupancy
	for rows.Next() {
		var t TypeOccupancy
		if err := rows.Scan(&t.RoomType, &t.Total, &t.Occupied); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *pgRepo) CreateAdmission(ctx context.Context, a *Admission) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO admission (id, patient_id, doctor_id, bed_id, admission_date,
			admission_time, status, diagnosis)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.BedID, a.AdmissionDate, a.AdmissionTime,
		a.Status, a.Diagnosis).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *pgRepo) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admissionCols+` FROM admission WHERE id = $1`, id))
}

func (r *pgRepo) UpdateAdmission(ctx context.Context, a *Admission) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE admission SET doctor_id=$2, bed_id=$3, discharge_date=$4,
			discharge_time=$5, status=$6, diagnosis=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.DoctorID, a.BedID, a.DischargeDate, a.DischargeTime,
		a.Status, a.Diagnosis)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) ListAdmissions(ctx context.Context, f AdmissionFilter) ([]*Admission, error) {
	query := `SELECT ` + admissionCols + ` FROM admission WHERE 1=1`
	var args []interface{}
	if f.PatientID != nil {
		args = append(args, *f.PatientID)
		query += ` AND patient_id = $1`
	}
	if f.Status != "" {
		args = append(args, f.Status)
		if len(args) == 1 {
			query += ` AND status = $1`
		} else {
			query += ` AND status = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Admission
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *pgRepo) CountActiveAdmissions(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM admission WHERE status = $1`, AdmissionActive).Scan(&n)
	return n, err
}

func (r *pgRepo) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.InTx(ctx, r.pool, fn)
}
