package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamtune/payrollhub/internal/config"
	"github.com/teamtune/payrollhub/internal/domain/payment"
)

type PaymentsStore interface {
	Create(ctx context.Context, req payment.CreatePaymentRequest) (payment.Payment, error)
	ListByEmail(ctx context.Context, email string) ([]payment.Payment, error)
}

type IntentCreator interface {
	CreateIntent(ctx context.Context, amount float64, currency string) (clientSecret string, err error)
}

type PaymentsHandler struct {
	store   PaymentsStore
	intents IntentCreator
}

func NewPaymentsHandler(store PaymentsStore, intents IntentCreator) *PaymentsHandler {
	return &PaymentsHandler{
		store:   store,
		intents: intents,
	}
}

func (h *PaymentsHandler) CreatePayment(ctx *gin.Context) {
	var req payment.CreatePaymentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	p, err := h.store.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create payment record")
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

func (h *PaymentsHandler) ListByEmail(ctx *gin.Context) {
	email := ctx.Param("email")

	if !callerMayReadOwned(ctx, email) {
		RespondForbidden(ctx, "Forbidden")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	payments, err := h.store.ListByEmail(cctx, email)

	if err != nil {
		RespondInternal(ctx, "Could not list payments")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": payments,
		"count": len(payments),
	})
}

type paymentIntentRequest struct {
	Salary float64 `json:"salary" binding:"required"`
}

// CreateIntent is a pass-through to the payment processor. No idempotency
// key, no persistence of the intent prior to confirmation.
func (h *PaymentsHandler) CreateIntent(ctx *gin.Context) {
	var req paymentIntentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	clientSecret, err := h.intents.CreateIntent(cctx, req.Salary, "usd")

	if err != nil {
		RespondInternal(ctx, "Could not create payment intent")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
}
