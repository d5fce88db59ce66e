package utils

import (
	"sync"
	"time"
)

// RevocationList menyimpan token yang sudah logout sampai waktu kadaluarsanya.
type RevocationList struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{tokens: make(map[string]time.Time)}
}

func (r *RevocationList) Add(token string, expiry time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = expiry
	r.cleanupLocked(time.Now())
}

func (r *RevocationList) Contains(token string) bool {
	r.mu.RLock()
	expiry, exists := r.tokens[token]
	r.mu.RUnlock()

	if !exists {
		return false
	}
	if time.Now().Before(expiry) {
		return true
	}

	// Hapus token kadaluarsa dari daftar
	r.mu.Lock()
	delete(r.tokens, token)
	r.mu.Unlock()
	return false
}

func (r *RevocationList) cleanupLocked(now time.Time) {
	for token, expiry := range r.tokens {
		if now.After(expiry) {
			delete(r.tokens, token)
		}
	}
}
