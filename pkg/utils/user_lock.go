package utils

import (
	"sync"

	"github.com/google/uuid"
)

// UserLocks hands out one mutex per user so stats-mutating requests for the
// same user run one at a time inside this process.
type UserLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// DefaultUserLocks is the package-level registry.
var DefaultUserLocks = NewUserLocks()

func NewUserLocks() *UserLocks {
	return &UserLocks{
		locks: make(map[uuid.UUID]*userLock),
	}
}

// Lock blocks until the user's lock is held and returns its release func.
func (l *UserLocks) Lock(userID uuid.UUID) func() {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of users currently holding or waiting on a lock.
func (l *UserLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
