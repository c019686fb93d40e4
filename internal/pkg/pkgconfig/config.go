package pkgconfig

import (
	"io"
	"time"
)

// Config is a read-only view of the application configuration.
type Config interface {
	io.Closer

	IsSet(key string) bool
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetDuration(key string) time.Duration
	GetTime(key string) time.Time
}
