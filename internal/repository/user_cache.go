package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/authkit/internal/model"
)

// CachedUserRepo wraps a UserStore with a Redis read-through cache on
// FindByID, which the auth middleware calls on every protected request.
// Only the public projection is cached; secrets never reach Redis.  Redis
// failures fall through to the wrapped store.  Anything that deletes or
// deactivates a user must also evict `<prefix>:id:<id>`, or the middleware
// keeps accepting the user's tokens until the entry expires.
type CachedUserRepo struct {
	UserStore
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCachedUserRepo returns store unchanged when rdb is nil so callers can
// wire it unconditionally.
func NewCachedUserRepo(store UserStore, rdb *redis.Client, ttl time.Duration, prefix string) UserStore {
	if rdb == nil {
		return store
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if prefix == "" {
		prefix = "user"
	}
	return &CachedUserRepo{UserStore: store, rdb: rdb, ttl: ttl, prefix: prefix}
}

func (r *CachedUserRepo) key(id string) string { return r.prefix + ":id:" + id }

func (r *CachedUserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	if bs, err := r.rdb.Get(ctx, r.key(id)).Bytes(); err == nil {
		var u model.User
		if json.Unmarshal(bs, &u) == nil {
			return u, nil
		}
	}
	u, err := r.UserStore.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if bs, err := json.Marshal(u); err == nil {
		_ = r.rdb.SetEx(ctx, r.key(id), bs, r.ttl).Err()
	}
	return u, nil
}
