package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSha256HashWithSalt(t *testing.T) {
	assert.Equal(t, Sha256Hash("secretsalt"), Sha256HashWithSalt("secret", "salt"))
	assert.NotEqual(t, Sha256Hash("secret"), Sha256HashWithSalt("secret", "salt"))
	assert.Len(t, Sha256Hash("secret"), 64)
}
