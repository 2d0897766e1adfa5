package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/authkit/internal/model"
)

// MemoryUserRepo keeps users in process memory.  It backs DB_DRIVER=memory
// and the handler tests.  The write lock makes the email check and insert
// atomic, matching the unique-key guarantee of the real backends.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]model.UserSecret
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:    make(map[string]model.UserSecret),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryUserRepo) Create(_ context.Context, in model.NewUser) (model.User, error) {
	email := NormalizeEmail(in.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; ok {
		return model.User{}, ErrDuplicateKey
	}
	now := r.now().UTC()
	s := model.UserSecret{
		User: model.User{
			ID:        uuid.NewString(),
			Name:      in.Name,
			Email:     email,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: in.PasswordHash,
	}
	r.byID[s.ID] = s
	r.byEmail[email] = s.ID
	return s.User, nil
}

func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	s, err := r.FindByEmailWithSecret(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	return s.User, nil
}

func (r *MemoryUserRepo) FindByEmailWithSecret(_ context.Context, email string) (model.UserSecret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return model.UserSecret{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return s.User, nil
}

// Delete removes a user.  It is not part of UserStore; tests use it to
// simulate an account disappearing after a token was issued.
func (r *MemoryUserRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		delete(r.byEmail, s.Email)
		delete(r.byID, id)
	}
}

// Count returns the number of stored users.
func (r *MemoryUserRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
