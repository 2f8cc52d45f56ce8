package library

import (
	"context"
	"fmt"

	"github.com/hupe1980/sdmgo/encoder"
	"github.com/hupe1980/sdmgo/store"
)

// commonWords is a small starter vocabulary of frequent English words.
var commonWords = []string{
	"THE", "AND", "FOR", "ARE", "BUT", "NOT", "YOU", "ALL", "CAN", "HER", "WAS", "ONE",
	"OUR", "HAD", "BY", "WORD", "WHAT", "SAY", "EACH", "SHE", "WHICH", "DO", "HOW",
	"THEIR", "TIME", "WILL", "ABOUT", "IF", "UP", "OUT", "MANY", "THEN", "THEM",
	"THESE", "SO", "SOME", "HIM", "HAS", "TWO", "MORE", "VERY", "GO", "NO", "WAY",
	"COULD", "MY", "THAN", "FIRST", "WATER", "BEEN", "CALL", "WHO", "AM", "ITS",
	"NOW", "FIND", "LONG", "DOWN", "DAY", "DID", "GET", "COME", "MADE", "MAY", "PART",
}

// SaveCommonWords creates the "common_words" library: frequent English
// words run through the text encoder at the given dimension.
func (l *Library) SaveCommonWords(ctx context.Context, dim int) error {
	enc := encoder.Text{Dim: dim}
	vectors := make([][]byte, len(commonWords))
	for i, word := range commonWords {
		vectors[i] = enc.Encode(word)
	}
	return l.Save(ctx, "common_words", vectors, commonWords)
}

// SaveNumbers creates the "numbers" library: the decimal strings 0..100
// run through the text encoder at the given dimension.
func (l *Library) SaveNumbers(ctx context.Context, dim int) error {
	var vectors [][]byte
	var labels []string
	enc := encoder.Text{Dim: dim}
	for i := 0; i <= 100; i++ {
		label := fmt.Sprintf("%d", i)
		labels = append(labels, label)
		vectors = append(vectors, enc.Encode(label))
	}
	return l.Save(ctx, "numbers", vectors, labels)
}

// minExtractAccess is the access-count threshold above which a location
// is considered learned enough to export.
const minExtractAccess = 5

// SaveFromStore freezes the Store's frequently accessed patterns into a
// library: each location with access count above the threshold
// contributes the sign of its counters, labelled by index and count.
func (l *Library) SaveFromStore(ctx context.Context, name string, st *store.Store) error {
	patterns := st.Extract(minExtractAccess)
	if len(patterns) == 0 {
		return ErrEmpty
	}

	vectors := make([][]byte, len(patterns))
	labels := make([]string, len(patterns))
	for i, p := range patterns {
		vectors[i] = p.Vector
		labels[i] = fmt.Sprintf("pattern_%d_access_%d", p.Index, p.AccessCount)
	}
	return l.Save(ctx, name, vectors, labels)
}
