package memory

import (
	"context"
	"sync"

	"github.com/teamtune/payrollhub/internal/domain/worksheet"
)

type WorksheetsRepo struct {
	mu    sync.RWMutex
	items []worksheet.Entry
}

func NewWorksheetsRepo() *WorksheetsRepo {
	return &WorksheetsRepo{
		items: make([]worksheet.Entry, 0),
	}
}

func (r *WorksheetsRepo) Create(_ context.Context, req worksheet.CreateEntryRequest) (worksheet.Entry, error) {
	e := worksheet.NewFromCreateRequest(req)

	r.mu.Lock()
	r.items = append(r.items, e)
	r.mu.Unlock()

	return e, nil
}

func (r *WorksheetsRepo) ListByEmail(_ context.Context, email string) ([]worksheet.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]worksheet.Entry, 0)

	for _, e := range r.items {
		if e.Email == email {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *WorksheetsRepo) ListAll(_ context.Context) ([]worksheet.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]worksheet.Entry, len(r.items))
	copy(out, r.items)

	return out, nil
}
