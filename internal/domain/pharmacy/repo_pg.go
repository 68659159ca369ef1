package pharmacy

import (
	"context"
	"errors"
	"fmt"

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

const medicationCols = `id, code, name, category, unit, stock, min_stock, price,
	created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Category, &m.Unit, &m.Stock,
		&m.MinStock, &m.Price, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *pgRepo) CreateMedication(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medication (id, code, name, category, unit, stock, min_stock, price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		m.ID, m.Code, m.Name, m.Category, m.Unit, m.Stock, m.MinStock, m.Price).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateCode
	}
	return err
}

func (r *pgRepo) GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medicationCols+` FROM medication WHERE id = $1`, id))
}

func (r *pgRepo) UpdateMedication(ctx context.Context, m *Medication) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET code=$2, name=$3, category=$4, unit=$5,
			min_stock=$6, price=$7, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Code, m.Name, m.Category, m.Unit, m.MinStock, m.Price)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateCode
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepo) ListMedications(ctx context.Context, f MedicationFilter, limit, offset int) ([]*Medication, int, error) {
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

	if f.Name != "" {
		add("name ILIKE '%%' || $%d || '%%'", f.Name)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.LowStock {
		if where == "" {
			where = " WHERE stock <= min_stock"
		} else {
			where += " AND stock <= min_stock"
		}
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medication`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataArgs := append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM medication%s ORDER BY name LIMIT $%d OFFSET $%d`,
			medicationCols, where, len(args)+1, len(args)+2), dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

// AdjustStock applies the delta with a conditional UPDATE so the non-negative
// check and the write are one statement. A concurrent dispense that would
// overdraw sees zero rows affected.
func (r *pgRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0`, id, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetMedication(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *pgRepo) CreatePrescription(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescription (id, patient_id, doctor_id, record_id, notes)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		p.ID, p.PatientID, p.DoctorID, p.RecordID, p.Notes).
		Scan(&p.CreatedAt)
	if err != nil {
		return err
	}
	for i := range p.Items {
		p.Items[i].ID = uuid.New()
		p.Items[i].PrescriptionID = p.ID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO prescription_item (id, prescription_id, medication_id,
				quantity, dosage, instructions)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			p.Items[i].ID, p.ID, p.Items[i].MedicationID, p.Items[i].Quantity,
			p.Items[i].Dosage, p.Items[i].Instructions)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *pgRepo) GetPrescription(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	var p Prescription
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, record_id, notes, created_at
		FROM prescription WHERE id = $1`, id).
		Scan(&p.ID, &p.PatientID, &p.DoctorID, &p.RecordID, &p.Notes, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgRepo) loadItems(ctx context.Context, p *Prescription) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, prescription_id, medication_id, quantity, dosage, instructions
		FROM prescription_item WHERE prescription_id = $1`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it PrescriptionItem
		if err := rows.Scan(&it.ID, &it.PrescriptionID, &it.MedicationID,
			&it.Quantity, &it.Dosage, &it.Instructions); err != nil {
			return err
		}
		p.Items = append(p.Items, it)
	}
	return rows.Err()
}

func (r *pgRepo) ListPrescriptions(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	where := ""
	var args []interface{}
	if patientID != nil {
		where = " WHERE patient_id = $1"
		args = append(args, *patientID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prescription`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataArgs := append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT id, patient_id, doctor_id, record_id, notes, created_at
			FROM prescription%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			where, len(args)+1, len(args)+2), dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Prescription
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.PatientID, &p.DoctorID, &p.RecordID,
			&p.Notes, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, p := range items {
		if err := r.loadItems(ctx, p); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *pgRepo) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.InTx(ctx, r.pool, fn)
}
