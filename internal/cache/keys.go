package cache

import (
	"fmt"
	"time"
)

// RateLimitKey buckets requests from client into fixed windows.
func RateLimitKey(client string, window time.Time) string {
	return fmt.Sprintf("shopdash:ratelimit:%s:%d", client, window.Unix())
}
