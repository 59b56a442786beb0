// Package loader provides request-scoped batching of user lookups. Resolving
// the user references embedded on a page of jobs (creator, deleter,
// homeowners) would otherwise issue one query per id; the loader coalesces
// them into a single fetch.
package loader

import (
	"context"
	"fmt"

	"jobtrack/internal/model"
	"jobtrack/internal/repository"
)

// UserThunk resolves to a single user once the pending batch has been fetched.
type UserThunk func() (*model.User, error)

// UserManyThunk resolves to one user per requested id, in input order.
type UserManyThunk func() ([]*model.User, error)

// UserLoader batches and memoizes user-by-id lookups for the lifetime of one
// request. Load and LoadMany enqueue ids; the first thunk invocation fetches
// every pending id with a single repository call and fans the results back
// out. Results are cached per id, so repeated loads never refetch.
//
// A loader must be created per request and is not safe for concurrent use.
type UserLoader struct {
	repo repository.UserRepository

	pending    []uint
	pendingSet map[uint]bool
	cache      map[uint]userResult
}

type userResult struct {
	user *model.User
	err  error
}

// NewUserLoader creates a loader scoped to a single request.
func NewUserLoader(repo repository.UserRepository) *UserLoader {
	return &UserLoader{
		repo:       repo,
		pendingSet: make(map[uint]bool),
		cache:      make(map[uint]userResult),
	}
}

// Load enqueues a user lookup and returns a thunk for its result. Missing
// users yield a per-id error, never a batch-wide failure.
func (l *UserLoader) Load(ctx context.Context, id uint) UserThunk {
	l.enqueue(id)
	return func() (*model.User, error) {
		l.flush(ctx)
		result := l.cache[id]
		return result.user, result.err
	}
}

// LoadMany enqueues several lookups at once. The resolved slice has one entry
// per input id in input order; the first missing id fails the thunk.
func (l *UserLoader) LoadMany(ctx context.Context, ids []uint) UserManyThunk {
	for _, id := range ids {
		l.enqueue(id)
	}
	return func() ([]*model.User, error) {
		l.flush(ctx)
		users := make([]*model.User, 0, len(ids))
		for _, id := range ids {
			result := l.cache[id]
			if result.err != nil {
				return nil, result.err
			}
			users = append(users, result.user)
		}
		return users, nil
	}
}

func (l *UserLoader) enqueue(id uint) {
	if _, done := l.cache[id]; done {
		return
	}
	if l.pendingSet[id] {
		return
	}
	l.pendingSet[id] = true
	l.pending = append(l.pending, id)
}

// flush fetches all pending ids in one repository call and caches the results.
func (l *UserLoader) flush(ctx context.Context) {
	if len(l.pending) == 0 {
		return
	}

	ids := l.pending
	l.pending = nil
	l.pendingSet = make(map[uint]bool)

	users, err := l.repo.FindByIDs(ctx, ids)
	if err != nil {
		for _, id := range ids {
			l.cache[id] = userResult{err: err}
		}
		return
	}

	byID := make(map[uint]model.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			u := user
			l.cache[id] = userResult{user: &u}
		} else {
			l.cache[id] = userResult{err: fmt.Errorf("user %d not found", id)}
		}
	}
}
