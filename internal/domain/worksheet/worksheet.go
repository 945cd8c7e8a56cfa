package worksheet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Entry is a single timesheet record. Entries are append-only: created by the
// owning user, listed by owner or by hr/admin, never updated or deleted.
type Entry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Task      string    `json:"task"`
	Hours     float64   `json:"hours"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("worksheet entry not found")

type CreateEntryRequest struct {
	Email string    `json:"email" binding:"required,email"`
	Task  string    `json:"task" binding:"required"`
	Hours float64   `json:"hours" binding:"required"`
	Date  time.Time `json:"date" binding:"required"`
}

func NewFromCreateRequest(req CreateEntryRequest) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Task:      req.Task,
		Hours:     req.Hours,
		Date:      req.Date,
		CreatedAt: time.Now().UTC(),
	}
}
