package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teamtune/payrollhub/internal/domain/payment"
	"github.com/teamtune/payrollhub/internal/observability"
)

type PaymentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPaymentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PaymentsRepo {
	return &PaymentsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *PaymentsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *PaymentsRepo) Create(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error) {
	p := payment.NewFromCreateRequest(req)

	err := r.observe("payments.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO payments (id, email, amount, month, year, transaction_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.Email, p.Amount, p.Month, p.Year, p.TransactionID, p.CreatedAt,
		)
		return err
	})

	if err != nil {
		return payment.Payment{}, err
	}

	return p, nil
}

func (r *PaymentsRepo) ListByEmail(ctx context.Context, email string) ([]payment.Payment, error) {
	var out []payment.Payment

	err := r.observe("payments.list_by_email", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, email, amount, month, year, transaction_id, created_at
			 FROM payments
			 WHERE email = $1
			 ORDER BY year DESC, month DESC, id ASC`,
			email,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]payment.Payment, 0)

		for rows.Next() {
			var p payment.Payment

			err = rows.Scan(&p.ID, &p.Email, &p.Amount, &p.Month, &p.Year, &p.TransactionID, &p.CreatedAt)

			if err != nil {
				return err
			}

			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
