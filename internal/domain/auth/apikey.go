// Package auth models the API keys that guard the order management surface.
// Keys are stored only as HMAC-SHA256 hashes and carry a scope list deciding
// which operations the caller may perform.
package auth

import "context"

// Scope names granted to API keys.
const ScopeManageOrders = "manage_orders"

// Key is a validated API key: its stored hash plus the grants attached to it.
type Key struct {
	ID      string
	KeyHash string
	Name    string
	Scopes  []string
}

// HasScope reports whether the key carries the given grant.
func (k *Key) HasScope(scope string) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Repository provides lookup of API keys by their HMAC hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*Key, error)
}
