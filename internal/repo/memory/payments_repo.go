package memory

import (
	"context"
	"sync"

	"github.com/teamtune/payrollhub/internal/domain/payment"
)

type PaymentsRepo struct {
	mu    sync.RWMutex
	items []payment.Payment
}

func NewPaymentsRepo() *PaymentsRepo {
	return &PaymentsRepo{
		items: make([]payment.Payment, 0),
	}
}

func (r *PaymentsRepo) Create(_ context.Context, req payment.CreatePaymentRequest) (payment.Payment, error) {
	p := payment.NewFromCreateRequest(req)

	r.mu.Lock()
	r.items = append(r.items, p)
	r.mu.Unlock()

	return p, nil
}

func (r *PaymentsRepo) ListByEmail(_ context.Context, email string) ([]payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]payment.Payment, 0)

	for _, p := range r.items {
		if p.Email == email {
			out = append(out, p)
		}
	}

	return out, nil
}
