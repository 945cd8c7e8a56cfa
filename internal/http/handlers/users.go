package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamtune/payrollhub/internal/cache"
	"github.com/teamtune/payrollhub/internal/config"
	"github.com/teamtune/payrollhub/internal/domain/user"
)

type UsersStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, req user.CreateUserRequest) (*string, error)
	ListByRole(ctx context.Context, role string) ([]user.User, error)
	ListVerifiedNonAdmin(ctx context.Context) ([]user.User, error)
	SetRole(ctx context.Context, id, role string) (user.User, error)
	SetVerified(ctx context.Context, id string, verified bool) (user.User, error)
	SetFired(ctx context.Context, id string, fired bool) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	store UsersStore
	cache *cache.Cache
}

func NewUsersHandler(store UsersStore) *UsersHandler {
	return &UsersHandler{store: store}
}

func NewUsersHandlerWithCache(store UsersStore, c *cache.Cache) *UsersHandler {
	return &UsersHandler{store: store, cache: c}
}

func (h *UsersHandler) GetUserByEmail(ctx *gin.Context) {
	email := ctx.Param("email")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.store.GetByEmail(cctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// RegisterUser is idempotent on email: re-registering an existing address is
// a no-op answered with a null inserted id, never a duplicate record.
func (h *UsersHandler) RegisterUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	insertedID, err := h.store.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not register user")
		return
	}

	if insertedID == nil {
		ctx.JSON(http.StatusOK, gin.H{
			"message":    "User already exists",
			"insertedId": nil,
		})
		return
	}

	h.invalidate()

	ctx.JSON(http.StatusCreated, gin.H{"insertedId": *insertedID})
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id := ctx.Param("userId")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not delete user")
		return
	}

	h.invalidate()

	ctx.Status(http.StatusNoContent)
}

// EmployeeList returns users holding the plain "user" role.
func (h *UsersHandler) EmployeeList(ctx *gin.Context) {
	h.respondRoster(ctx, "users.employee_list", func(cctx context.Context) ([]user.User, error) {
		return h.store.ListByRole(cctx, user.RoleUser)
	})
}

// AllEmployeeList returns every verified, non-admin user.
func (h *UsersHandler) AllEmployeeList(ctx *gin.Context) {
	h.respondRoster(ctx, "users.all_employee_list", func(cctx context.Context) ([]user.User, error) {
		return h.store.ListVerifiedNonAdmin(cctx)
	})
}

func (h *UsersHandler) respondRoster(ctx *gin.Context, cacheKey string, list func(context.Context) ([]user.User, error)) {
	if h.cache != nil {
		if v, ok := h.cache.Get(cacheKey); ok {
			if items, ok := v.([]user.User); ok {
				RespondJSONWithETag(ctx, http.StatusOK, gin.H{
					"items": items,
					"count": len(items),
				})
				return
			}
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := list(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	if h.cache != nil {
		h.cache.Set(cacheKey, items)
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// MakeHR elevates a user to the hr role.
func (h *UsersHandler) MakeHR(ctx *gin.Context) {
	h.patchUser(ctx, ctx.Param("userId"), func(cctx context.Context, id string) (user.User, error) {
		return h.store.SetRole(cctx, id, user.RoleHR)
	})
}

type fireRequest struct {
	Fired *bool `json:"fired"`
}

// Fire toggles the employment flag; an absent body means fired.
func (h *UsersHandler) Fire(ctx *gin.Context) {
	fired := true

	if ctx.Request.ContentLength > 0 {
		var req fireRequest

		if !BindJSON(ctx, &req) {
			return
		}

		if req.Fired != nil {
			fired = *req.Fired
		}
	}

	h.patchUser(ctx, ctx.Param("userId"), func(cctx context.Context, id string) (user.User, error) {
		return h.store.SetFired(cctx, id, fired)
	})
}

type verifyRequest struct {
	Verify *bool `json:"verify" binding:"required"`
}

// VerifyUser flips the HR/admin approval flag and echoes the updated record.
func (h *UsersHandler) VerifyUser(ctx *gin.Context) {
	var req verifyRequest

	if !BindJSON(ctx, &req) {
		return
	}

	h.patchUser(ctx, ctx.Param("id"), func(cctx context.Context, id string) (user.User, error) {
		return h.store.SetVerified(cctx, id, *req.Verify)
	})
}

func (h *UsersHandler) patchUser(ctx *gin.Context, id string, apply func(context.Context, string) (user.User, error)) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := apply(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not update user")
		return
	}

	h.invalidate()

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) invalidate() {
	if h.cache != nil {
		h.cache.Clear()
	}
}
