package billing

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

const billingCols = `id, invoice_no, patient_id, admission_id, bill_date,
	total_amount, paid_amount, status, created_at, updated_at`

func scanBilling(row pgx.Row) (*Billing, error) {
	var b Billing
	err := row.Scan(&b.ID, &b.InvoiceNo, &b.PatientID, &b.AdmissionID,
		&b.BillDate, &b.TotalAmount, &b.PaidAmount, &b.Status,
		&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &b, err
}

func (r *pgRepo) Create(ctx context.Context, b *Billing) error {
	b.ID = uuid.New()
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO billing (id, invoice_no, patient_id, admission_id,
				bill_date, total_amount, paid_amount, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			RETURNING created_at, updated_at`,
			b.ID, b.InvoiceNo, b.PatientID, b.AdmissionID, b.BillDate,
			b.TotalAmount, b.PaidAmount, b.Status).
			Scan(&b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return err
		}
		return r.insertItems(ctx, b)
	})
}

func (r *pgRepo) insertItems(ctx context.Context, b *Billing) error {
	for i := range b.Items {
		b.Items[i].ID = uuid.New()
		b.Items[i].BillingID = b.ID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO billing_item (id, billing_id, description, quantity,
				unit_price, amount)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			b.Items[i].ID, b.ID, b.Items[i].Description, b.Items[i].Quantity,
			b.Items[i].UnitPrice, b.Items[i].Amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *pgRepo) loadItems(ctx context.Context, b *Billing) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, billing_id, description, quantity, unit_price, amount
		FROM billing_item WHERE billing_id = $1`, b.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it BillingItem
		if err := rows.Scan(&it.ID, &it.BillingID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Amount); err != nil {
			return err
		}
		b.Items = append(b.Items, it)
	}
	return rows.Err()
}

func (r *pgRepo) GetByID(ctx context.Context, id uuid.UUID) (*Billing, error) {
	b, err := scanBilling(r.conn(ctx).QueryRow(ctx,
		`SELECT `+billingCols+` FROM billing WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *pgRepo) Update(ctx context.Context, b *Billing) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE billing SET bill_date=$2, total_amount=$3, paid_amount=$4,
				status=$5, updated_at=NOW()
			WHERE id = $1`,
			b.ID, b.BillDate, b.TotalAmount, b.PaidAmount, b.Status)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := r.conn(ctx).Exec(ctx,
			`DELETE FROM billing_item WHERE billing_id = $1`, b.ID); err != nil {
			return err
		}
		return r.insertItems(ctx, b)
	})
}

func (r *pgRepo) List(ctx context.Context, f Filter, limit, offset int) ([]*Billing, int, error) {
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
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM billing`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataArgs := append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM billing%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			billingCols, where, len(args)+1, len(args)+2), dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Billing
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, b := range items {
		if err := r.loadItems(ctx, b); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *pgRepo) AddPayment(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now().UTC()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payment (id, billing_id, amount, method, paid_at)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.BillingID, p.Amount, p.Method, p.PaidAt)
	return err
}

func (r *pgRepo) ListPayments(ctx context.Context, billingID uuid.UUID) ([]*Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, billing_id, amount, method, paid_at
		FROM payment WHERE billing_id = $1 ORDER BY paid_at`, billingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.BillingID, &p.Amount, &p.Method, &p.PaidAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *pgRepo) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var sum float64
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM payment
		WHERE paid_at >= $1 AND paid_at < $2`, from, to).Scan(&sum)
	return sum, err
}

func (r *pgRepo) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.InTx(ctx, r.pool, fn)
}
