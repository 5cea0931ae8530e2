// Package utils provides shared helpers for the analytics service.
package utils

// ToPtr returns a pointer to v.
func ToPtr[T any](v T) *T {
	return &v
}

// IsTrue reports whether a nullable flag is set and true.
func IsTrue(b *bool) bool {
	return b != nil && *b
}
