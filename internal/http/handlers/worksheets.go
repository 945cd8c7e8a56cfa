package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamtune/payrollhub/internal/config"
	"github.com/teamtune/payrollhub/internal/domain/user"
	"github.com/teamtune/payrollhub/internal/domain/worksheet"
	"github.com/teamtune/payrollhub/internal/http/middlewares"
)

type WorksheetsStore interface {
	Create(ctx context.Context, req worksheet.CreateEntryRequest) (worksheet.Entry, error)
	ListByEmail(ctx context.Context, email string) ([]worksheet.Entry, error)
	ListAll(ctx context.Context) ([]worksheet.Entry, error)
}

type WorksheetsHandler struct {
	store WorksheetsStore
}

func NewWorksheetsHandler(store WorksheetsStore) *WorksheetsHandler {
	return &WorksheetsHandler{store: store}
}

func (h *WorksheetsHandler) CreateEntry(ctx *gin.Context) {
	var req worksheet.CreateEntryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entry, err := h.store.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create worksheet entry")
		return
	}

	ctx.JSON(http.StatusCreated, entry)
}

// ListByEmail serves a single user's timesheet. The email in the path must be
// the caller's own unless the caller holds a privileged role; the role stage
// cannot see path params, so the ownership check lives here.
func (h *WorksheetsHandler) ListByEmail(ctx *gin.Context) {
	email := ctx.Param("email")

	if !callerMayReadOwned(ctx, email) {
		RespondForbidden(ctx, "Forbidden")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entries, err := h.store.ListByEmail(cctx, email)

	if err != nil {
		RespondInternal(ctx, "Could not list worksheet entries")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": entries,
		"count": len(entries),
	})
}

func (h *WorksheetsHandler) ListAll(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entries, err := h.store.ListAll(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list worksheet entries")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": entries,
		"count": len(entries),
	})
}

// callerMayReadOwned allows the record owner and the privileged roles.
func callerMayReadOwned(ctx *gin.Context, ownerEmail string) bool {
	role, _ := middlewares.RoleFromContext(ctx)

	if role == user.RoleHR || role == user.RoleAdmin {
		return true
	}

	email, ok := middlewares.EmailFromContext(ctx)

	return ok && email != "" && email == ownerEmail
}
