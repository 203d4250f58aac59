package utils

import (
	"errors"
	"sync"
	"time"
)

var ErrTokenRevoked = errors.New("token has been revoked")

// Logout works by blacklisting the presented token until it would have
// expired anyway. The set lives in memory, matching the single-process
// deployment model.
var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

func BlacklistToken(token string) {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = time.Now().Add(24 * time.Hour)
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.RLock()
	defer blacklistMutex.RUnlock()

	if expiry, exists := blacklistedTokens[token]; exists {
		if time.Now().Before(expiry) {
			return true
		}
	}
	return false
}

// CleanupBlacklist drops entries past their expiry. Called periodically
// from main.
func CleanupBlacklist() {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	now := time.Now()
	for token, expiry := range blacklistedTokens {
		if now.After(expiry) {
			delete(blacklistedTokens, token)
		}
	}
}

// ValidateToken parses the token and refuses blacklisted ones.
func ValidateToken(tokenString string) (*AdminClaims, error) {
	if IsTokenBlacklisted(tokenString) {
		return nil, ErrTokenRevoked
	}
	return ParseToken(tokenString)
}
