package memory

import (
	"context"
	"sync"
	"time"

	"github.com/teamtune/payrollhub/internal/domain/user"
)

type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // keyed by id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(_ context.Context, req user.CreateUserRequest) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == req.Email {
			// duplicate email, null-insert marker
			return nil, nil
		}
	}

	u := user.NewFromCreateRequest(req)
	r.items[u.ID] = u

	id := u.ID

	return &id, nil
}

func (r *UsersRepo) ListByRole(_ context.Context, role string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0)

	for _, u := range r.items {
		if u.Role == role {
			out = append(out, u)
		}
	}

	return out, nil
}

func (r *UsersRepo) ListVerifiedNonAdmin(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0)

	for _, u := range r.items {
		if u.Verified && u.Role != user.RoleAdmin {
			out = append(out, u)
		}
	}

	return out, nil
}

func (r *UsersRepo) SetRole(_ context.Context, id, role string) (user.User, error) {
	return r.update(id, func(u *user.User) {
		u.Role = role
	})
}

func (r *UsersRepo) SetVerified(_ context.Context, id string, verified bool) (user.User, error) {
	return r.update(id, func(u *user.User) {
		u.Verified = verified
	})
}

func (r *UsersRepo) SetFired(_ context.Context, id string, fired bool) (user.User, error) {
	return r.update(id, func(u *user.User) {
		u.Fired = fired
	})
}

func (r *UsersRepo) update(id string, mutate func(*user.User)) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	mutate(&u)
	u.UpdatedAt = time.Now().UTC()
	r.items[id] = u

	return u, nil
}

func (r *UsersRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]

	if !ok {
		return user.ErrNotFound
	}

	delete(r.items, id)

	return nil
}
