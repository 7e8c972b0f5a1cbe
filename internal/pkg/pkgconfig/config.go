package pkgconfig

import "time"

// Config is the read-only view of settings handed to modules.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetDuration(key string) time.Duration
}
