package medicalrecord

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

const recordCols = `id, patient_id, doctor_id, appointment_id, date, subjective,
	objective, assessment, plan, diagnosis_code, diagnosis_name, systolic,
	diastolic, temperature, pulse, respiration, weight_kg, height_cm,
	created_at, updated_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.AppointmentID,
		&rec.Date, &rec.Subjective, &rec.Objective, &rec.Assessment, &rec.Plan,
		&rec.DiagnosisCode, &rec.DiagnosisName, &rec.Vitals.Systolic,
		&rec.Vitals.Diastolic, &rec.Vitals.Temperature, &rec.Vitals.Pulse,
		&rec.Vitals.Respiration, &rec.Vitals.WeightKg, &rec.Vitals.HeightCm,
		&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &rec, err
}

func (r *pgRepo) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_record (id, patient_id, doctor_id, appointment_id,
			date, subjective, objective, assessment, plan, diagnosis_code,
			diagnosis_name, systolic, diastolic, temperature, pulse,
			respiration, weight_kg, height_cm)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING created_at, updated_at`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.AppointmentID, rec.Date,
		rec.Subjective, rec.Objective, rec.Assessment, rec.Plan,
		rec.DiagnosisCode, rec.DiagnosisName, rec.Vitals.Systolic,
		rec.Vitals.Diastolic, rec.Vitals.Temperature, rec.Vitals.Pulse,
		rec.Vitals.Respiration, rec.Vitals.WeightKg, rec.Vitals.HeightCm).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (r *pgRepo) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM medical_record WHERE id = $1`, id))
}

func (r *pgRepo) Update(ctx context.Context, rec *Record) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medical_record SET subjective=$2, objective=$3, assessment=$4,
			plan=$5, diagnosis_code=$6, diagnosis_name=$7, systolic=$8,
			diastolic=$9, temperature=$10, pulse=$11, respiration=$12,
			weight_kg=$13, height_cm=$14, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.Subjective, rec.Objective, rec.Assessment, rec.Plan,
		rec.DiagnosisCode, rec.DiagnosisName, rec.Vitals.Systolic,
		rec.Vitals.Diastolic, rec.Vitals.Temperature, rec.Vitals.Pulse,
		rec.Vitals.Respiration, rec.Vitals.WeightKg, rec.Vitals.HeightCm)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_record WHERE patient_id = $1`, patientID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+recordCols+` FROM medical_record
		WHERE patient_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}
