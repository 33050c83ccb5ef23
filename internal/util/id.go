// Package util provides small helpers shared across the module.
package util

import "github.com/google/uuid"

// NewID returns a prefixed identifier such as "task-3fa92b1c". The short
// UUID fragment keeps IDs readable in tool output while staying unique
// enough for a single project database.
func NewID(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}
