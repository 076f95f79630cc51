// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxCallableBody is the maximum size of a callable request envelope.
	// School configs are free-form maps, so this is generous.
	MaxCallableBody = 1 << 20 // 1 MB
)
