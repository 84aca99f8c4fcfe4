package application

import "sync"

// AccountLocker serialises balance-affecting work per account inside this process.
// Row locks taken inside the transaction cover other processes.
type AccountLocker struct {
	mu    sync.Mutex
	locks map[int64]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

// NewAccountLocker creates an empty locker
func NewAccountLocker() *AccountLocker {
	return &AccountLocker{locks: make(map[int64]*accountLock)}
}

// Lock blocks until the account is free and returns the matching unlock.
// Calling the unlock more than once is a no-op.
func (l *AccountLocker) Lock(accountID int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[accountID]
	if !ok {
		lock = &accountLock{}
		l.locks[accountID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			lock.mu.Unlock()

			l.mu.Lock()
			lock.refs--
			if lock.refs == 0 {
				delete(l.locks, accountID)
			}
			l.mu.Unlock()
		})
	}
}

// Len returns how many accounts are currently held or waited on
func (l *AccountLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
