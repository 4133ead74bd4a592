package providers

import (
	"context"
)

// CacheProvider stores serialized directory reads (clinicians, the service
// catalog) shared between API instances. A missing key is an error from Get.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttlSeconds; zero keeps it until evicted
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error

	// Delete evicts key. Evicting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
