package gateway

import "sync"

// Lock is the process-wide API lock. It starts unlocked.
type Lock struct {
	mu     sync.Mutex
	locked bool
}

// Locked reports the current state.
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

// Toggle flips the state and returns the new value.
func (l *Lock) Toggle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = !l.locked
	return l.locked
}

// LockStatus is the body of both lock endpoints.
type LockStatus struct {
	Locked  bool   `json:"locked"`
	Message string `json:"message"`
}

func lockStatus(locked bool) LockStatus {
	if locked {
		return LockStatus{Locked: true, Message: "API is locked"}
	}
	return LockStatus{Locked: false, Message: "API is unlocked"}
}

func toggledStatus(locked bool) LockStatus {
	if locked {
		return LockStatus{Locked: true, Message: "API is now locked"}
	}
	return LockStatus{Locked: false, Message: "API is now unlocked"}
}
