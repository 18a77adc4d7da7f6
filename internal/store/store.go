// Package store provides the client's persistent key/value state.
package store

import "context"

// LocalStorage is a string key/value store surviving restarts.
type LocalStorage interface {
	// GetItem returns the value and whether the key exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Close() error
}

// ServiceStatusKey holds the last known offer status ("in_progress", "completed", ...).
func ServiceStatusKey(offerID string) string {
	return "service_status_" + offerID
}

// PaymentCompletedKey holds "true" once escrow was funded.
func PaymentCompletedKey(offerID string) string {
	return "payment_completed_" + offerID
}
