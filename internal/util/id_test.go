package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDFormat(t *testing.T) {
	id := NewID("task")
	assert.True(t, strings.HasPrefix(id, "task-"))
	assert.Len(t, id, len("task-")+8)

	// Collisions in a small batch would indicate a broken generator.
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		v := NewID("blk")
		assert.False(t, seen[v])
		seen[v] = true
	}
}
