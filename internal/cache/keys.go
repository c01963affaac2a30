package cache

import "fmt"

// RateLimitKey is the fixed-window counter for one API key prefix.
func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("radassist:ratelimit:%s", keyPrefix)
}
