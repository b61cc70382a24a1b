package repository

import "context"

// CacheRepository stores computed results by key. A miss and a backend error
// look the same to callers: the result is simply computed again.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
