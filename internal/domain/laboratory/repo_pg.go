package laboratory

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

const orderCols = `id, patient_id, doctor_id, record_id, status, notes,
	completed_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.PatientID, &o.DoctorID, &o.RecordID, &o.Status,
		&o.Notes, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &o, err
}

func (r *pgRepo) Create(ctx context.Context, o *Order) error {
	o.ID = uuid.New()
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO lab_order (id, patient_id, doctor_id, record_id, status, notes)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING created_at, updated_at`,
			o.ID, o.PatientID, o.DoctorID, o.RecordID, o.Status, o.Notes).
			Scan(&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return err
		}
		for i := range o.Tests {
			o.Tests[i].ID = uuid.New()
			o.Tests[i].OrderID = o.ID
			_, err := r.conn(ctx).Exec(ctx, `
				INSERT INTO lab_test (id, order_id, name, result, unit, ref_range, flag)
				VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				o.Tests[i].ID, o.ID, o.Tests[i].Name, o.Tests[i].Result,
				o.Tests[i].Unit, o.Tests[i].RefRange, o.Tests[i].Flag)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *pgRepo) loadTests(ctx context.Context, o *Order) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, order_id, name, result, unit, ref_range, flag
		FROM lab_test WHERE order_id = $1 ORDER BY name`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var t Test
		if err := rows.Scan(&t.ID, &t.OrderID, &t.Name, &t.Result, &t.Unit,
			&t.RefRange, &t.Flag); err != nil {
			return err
		}
		o.Tests = append(o.Tests, t)
	}
	return rows.Err()
}

func (r *pgRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.conn(ctx).QueryRow(ctx,
		`SELECT `+orderCols+` FROM lab_order WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadTests(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *pgRepo) Update(ctx context.Context, o *Order) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE lab_order SET status=$2, notes=$3, completed_at=$4, updated_at=NOW()
			WHERE id = $1`,
			o.ID, o.Status, o.Notes, o.CompletedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		for _, t := range o.Tests {
			_, err := r.conn(ctx).Exec(ctx, `
				UPDATE lab_test SET result=$2, unit=$3, ref_range=$4, flag=$5
				WHERE id = $1`,
				t.ID, t.Result, t.Unit, t.RefRange, t.Flag)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *pgRepo) List(ctx context.Context, f Filter, limit, offset int) ([]*Order, int, error) {
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
	if f.PatientID != nil {
		add("patient_id = $%d", *f.PatientID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_order`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataArgs := append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM lab_order%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			orderCols, where, len(args)+1, len(args)+2), dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, o := range items {
		if err := r.loadTests(ctx, o); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}
