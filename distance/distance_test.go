package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHamming(t *testing.T) {
	t.Run("Identical", func(t *testing.T) {
		a := []byte{1, 0, 1, 0}
		assert.Equal(t, 0, Hamming(a, a))
	})

	t.Run("Disjoint", func(t *testing.T) {
		a := []byte{1, 1, 0, 0}
		b := []byte{0, 0, 1, 1}
		assert.Equal(t, 4, Hamming(a, b))
	})

	t.Run("Partial", func(t *testing.T) {
		a := []byte{1, 0, 1, 0}
		b := []byte{1, 1, 1, 1}
		assert.Equal(t, 2, Hamming(a, b))
	})
}

func TestPopCount(t *testing.T) {
	assert.Equal(t, 0, PopCount([]byte{0, 0, 0}))
	assert.Equal(t, 2, PopCount([]byte{1, 0, 1}))
	assert.Equal(t, 0, PopCount(nil))
}

func TestMatch(t *testing.T) {
	a := []byte{1, 0, 1, 0}
	b := []byte{1, 0, 0, 0}

	assert.Equal(t, 1.0, Match(a, a))
	assert.Equal(t, 0.75, Match(a, b))
	assert.Equal(t, 0.0, Match(nil, nil))
}
