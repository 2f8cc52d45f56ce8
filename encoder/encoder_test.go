package encoder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	enc := Text{Dim: 128}

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, enc.Encode("HELLO"), enc.Encode("HELLO"))
	})

	t.Run("Density", func(t *testing.T) {
		v := enc.Encode("HELLO")

		ones := 0
		for _, bit := range v {
			if bit != 0 {
				ones++
			}
		}
		assert.Greater(t, ones, 0)
		assert.LessOrEqual(t, ones, 3*len("HELLO"))
	})

	t.Run("Truncation", func(t *testing.T) {
		long := strings.Repeat("A", 100)
		assert.Equal(t, enc.Encode(long[:32]), enc.Encode(long))
	})

	t.Run("EmptyString", func(t *testing.T) {
		assert.Equal(t, make([]byte, 128), enc.Encode(""))
	})

	t.Run("DiagnosticDecode", func(t *testing.T) {
		v := enc.Encode("WORD")
		ones := 0
		for _, bit := range v {
			if bit != 0 {
				ones++
			}
		}
		assert.Equal(t, fmt.Sprintf("decoded_%d_bits", ones), enc.Decode(v))
	})
}

func TestScalar(t *testing.T) {
	enc := Scalar{Dim: 64, Min: -100, Max: 100}

	t.Run("RoundTrip", func(t *testing.T) {
		// Quantisation error is bounded by (max-min)/(D-1).
		for _, x := range []float64{-100, 0, 50, 100} {
			got := enc.Decode(enc.Encode(x))
			assert.InDelta(t, x, got, 3.2, "x=%v", x)
		}
	})

	t.Run("Clamp", func(t *testing.T) {
		assert.Equal(t, enc.Encode(-100), enc.Encode(-500))
		assert.Equal(t, enc.Encode(100), enc.Encode(500))
	})

	t.Run("Monotone", func(t *testing.T) {
		prev := -1
		for _, x := range []float64{-100, -50, 0, 50, 100} {
			v := enc.Encode(x)
			ones := 0
			for _, bit := range v {
				if bit != 0 {
					ones++
				}
			}
			assert.Greater(t, ones, prev)
			prev = ones
		}
	})

	t.Run("Extremes", func(t *testing.T) {
		assert.InDelta(t, -100.0, enc.Decode(enc.Encode(-100)), 1e-9)
		assert.InDelta(t, 100.0, enc.Decode(enc.Encode(100)), 1e-9)
	})
}

func TestSequence(t *testing.T) {
	enc := Sequence{Dim: 64, Length: 8}

	t.Run("SegmentWidth", func(t *testing.T) {
		assert.Equal(t, 8, enc.SegmentWidth())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		seq := []float64{0.5, -0.5, 0, 1, -1}
		decoded := enc.Decode(enc.Encode(seq))

		require.Len(t, decoded, 8)
		bound := 2.0 / float64(enc.SegmentWidth())
		for i, x := range seq {
			assert.InDelta(t, x, decoded[i], bound, "element %d", i)
		}
		// Unused trailing segments decode to -1.
		for i := len(seq); i < 8; i++ {
			assert.Equal(t, -1.0, decoded[i])
		}
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, make([]byte, 64), enc.Encode(nil))
	})

	t.Run("Overflow", func(t *testing.T) {
		long := make([]float64, 20)
		for i := range long {
			long[i] = 1
		}
		v := enc.Encode(long)
		assert.Equal(t, v, enc.Encode(long[:8]))
	})

	t.Run("DefaultLength", func(t *testing.T) {
		enc := Sequence{Dim: 64}
		assert.Equal(t, 2, enc.SegmentWidth())
		assert.Len(t, enc.Decode(make([]byte, 64)), DefaultSequenceLength)
	})
}
