package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Payment is a paid-salary record. Created by a privileged caller, read-only
// per owner after creation.
type Payment struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Amount        float64   `json:"amount"`
	Month         string    `json:"month"`
	Year          int       `json:"year"`
	TransactionID string    `json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("payment not found")

type CreatePaymentRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	Amount        float64 `json:"amount" binding:"required"`
	Month         string  `json:"month" binding:"required"`
	Year          int     `json:"year" binding:"required"`
	TransactionID string  `json:"transactionId" binding:"omitempty"`
}

func NewFromCreateRequest(req CreatePaymentRequest) Payment {
	return Payment{
		ID:            uuid.NewString(),
		Email:         req.Email,
		Amount:        req.Amount,
		Month:         req.Month,
		Year:          req.Year,
		TransactionID: req.TransactionID,
		CreatedAt:     time.Now().UTC(),
	}
}
