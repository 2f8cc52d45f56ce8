// Package encoder lifts domain values into the memory engine's
// byte-per-bit vector space and back.
//
// Encoders are variants, one per input kind, each with a single
// encode/decode pair:
//
//   - Text: positional multi-hash of characters. Decode is diagnostic
//     only; no inverse recovery is claimed.
//   - Scalar: thermometer code over a [Min,Max] range. Monotone in the
//     value and tolerant of single-bit noise.
//   - Sequence: segmented thermometer code for sequences in [-1,1].
//
// All encoders are stateless values and safe to copy.
package encoder

import "fmt"

// DefaultSequenceLength bounds text and sequence inputs.
const DefaultSequenceLength = 32

// Text encodes strings by setting three hashed bit positions per
// character, OR-combined across positions. Density grows with length.
type Text struct {
	// Dim is the vector dimensionality D.
	Dim int
	// SequenceLength truncates input; 0 means DefaultSequenceLength.
	SequenceLength int
}

func (e Text) maxLen() int {
	if e.SequenceLength > 0 {
		return e.SequenceLength
	}
	return DefaultSequenceLength
}

// Encode maps text to a bit-vector. Input beyond the sequence length is
// truncated. The three per-character hashes use distinct multiplicative
// constants to reduce collisions.
func (e Text) Encode(text string) []byte {
	v := make([]byte, e.Dim)
	for i := 0; i < len(text) && i < e.maxLen(); i++ {
		c := int(text[i])
		v[(c*17+i*31)%e.Dim] = 1
		v[(c*23+i*47)%e.Dim] = 1
		v[(c*41+i*53)%e.Dim] = 1
	}
	return v
}

// Decode returns a diagnostic string reporting the number of set bits.
// Text encoding is not invertible; treat this as observability only.
func (e Text) Decode(v []byte) string {
	active := 0
	for _, bit := range v {
		if bit != 0 {
			active++
		}
	}
	return fmt.Sprintf("decoded_%d_bits", active)
}

// Scalar encodes a value in [Min,Max] as a thermometer code: bits
// [0,p] are set where p is the normalised position scaled to D-1.
type Scalar struct {
	Dim      int
	Min, Max float64
}

// Encode clamps the value to [Min,Max] and returns its thermometer code.
func (e Scalar) Encode(value float64) []byte {
	v := make([]byte, e.Dim)

	normalized := (value - e.Min) / (e.Max - e.Min)
	if normalized < 0 {
		normalized = 0
	} else if normalized > 1 {
		normalized = 1
	}

	position := int(normalized * float64(e.Dim-1))
	for i := 0; i <= position && i < e.Dim; i++ {
		v[i] = 1
	}
	return v
}

// Decode scans for the highest set bit and maps it back to [Min,Max].
// The quantisation error is at most (Max-Min)/(D-1).
func (e Scalar) Decode(v []byte) float64 {
	highest := 0
	for i, bit := range v {
		if bit == 1 {
			highest = i
		}
	}
	normalized := float64(highest) / float64(e.Dim-1)
	return e.Min + normalized*(e.Max-e.Min)
}

// Sequence encodes fixed-length sequences of values in [-1,1] by
// partitioning the vector into equal-width segments and thermometer-
// coding each element into its segment.
type Sequence struct {
	Dim int
	// Length is the maximum number of elements; 0 means
	// DefaultSequenceLength. Segment width is Dim/Length.
	Length int
}

func (e Sequence) length() int {
	if e.Length > 0 {
		return e.Length
	}
	return DefaultSequenceLength
}

// SegmentWidth returns the number of bits per sequence element.
func (e Sequence) SegmentWidth() int {
	return e.Dim / e.length()
}

// Encode maps a sequence to a bit-vector. Elements beyond Length are
// dropped; an empty sequence yields the all-zero vector.
func (e Sequence) Encode(seq []float64) []byte {
	v := make([]byte, e.Dim)
	if len(seq) == 0 {
		return v
	}

	width := e.SegmentWidth()
	for k := 0; k < len(seq) && k < e.length(); k++ {
		normalized := (seq[k] + 1) / 2
		if normalized < 0 {
			normalized = 0
		} else if normalized > 1 {
			normalized = 1
		}

		start := k * width
		n := int(normalized * float64(width))
		for j := 0; j < n && start+j < e.Dim; j++ {
			v[start+j] = 1
		}
	}
	return v
}

// Decode counts set bits per segment and maps each count back to [-1,1].
// It always returns exactly Length elements; the per-element error is
// bounded by 2/SegmentWidth.
func (e Sequence) Decode(v []byte) []float64 {
	width := e.SegmentWidth()
	seq := make([]float64, e.length())
	for k := range seq {
		start := k * width
		active := 0
		for j := 0; j < width && start+j < len(v); j++ {
			if v[start+j] == 1 {
				active++
			}
		}
		seq[k] = float64(active)/float64(width)*2 - 1
	}
	return seq
}
