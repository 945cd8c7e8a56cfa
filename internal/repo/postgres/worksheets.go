package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teamtune/payrollhub/internal/domain/worksheet"
	"github.com/teamtune/payrollhub/internal/observability"
)

type WorksheetsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewWorksheetsRepo(pool *pgxpool.Pool, prom *observability.Prom) *WorksheetsRepo {
	return &WorksheetsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *WorksheetsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *WorksheetsRepo) Create(ctx context.Context, req worksheet.CreateEntryRequest) (worksheet.Entry, error) {
	e := worksheet.NewFromCreateRequest(req)

	err := r.observe("worksheets.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO worksheets (id, email, task, hours, work_date, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, e.Email, e.Task, e.Hours, e.Date, e.CreatedAt,
		)
		return err
	})

	if err != nil {
		return worksheet.Entry{}, err
	}

	return e, nil
}

func (r *WorksheetsRepo) ListByEmail(ctx context.Context, email string) ([]worksheet.Entry, error) {
	return r.list(ctx, "worksheets.list_by_email",
		`SELECT id, email, task, hours, work_date, created_at
		 FROM worksheets
		 WHERE email = $1
		 ORDER BY work_date DESC, id ASC`,
		email,
	)
}

func (r *WorksheetsRepo) ListAll(ctx context.Context) ([]worksheet.Entry, error) {
	return r.list(ctx, "worksheets.list_all",
		`SELECT id, email, task, hours, work_date, created_at
		 FROM worksheets
		 ORDER BY work_date DESC, id ASC`,
	)
}

func (r *WorksheetsRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]worksheet.Entry, error) {
	var out []worksheet.Entry

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]worksheet.Entry, 0)

		for rows.Next() {
			var e worksheet.Entry

			err = rows.Scan(&e.ID, &e.Email, &e.Task, &e.Hours, &e.Date, &e.CreatedAt)

			if err != nil {
				return err
			}

			out = append(out, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
