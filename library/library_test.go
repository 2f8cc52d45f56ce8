package library

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sdmgo/blobstore"
	"github.com/hupe1980/sdmgo/store"
)

var testVectors = [][]byte{
	{1, 0, 1, 0, 0, 0, 0, 0},
	{0, 1, 0, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 0, 0},
}

var testLabels = []string{"alpha", "beta", "gamma"}

func newTestStore(t *testing.T, dim int) *store.Store {
	t.Helper()
	seed := int64(42)
	st, err := store.New(store.Config{
		VectorDim:    dim,
		NumLocations: 16,
		AccessRadius: dim, // all locations activate
		Sparsity:     0.25,
	}, func(o *store.Options) { o.RandomSeed = &seed })
	require.NoError(t, err)
	return st
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	l := New(blobstore.NewMemoryStore())

	require.NoError(t, l.Save(ctx, "test", testVectors, testLabels))

	vectors, labels, err := l.Load(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, testVectors, vectors)
	assert.Equal(t, testLabels, labels)
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	l := New(blobstore.NewMemoryStore())

	require.ErrorIs(t, l.Save(ctx, "empty", nil, nil), ErrEmpty)

	ragged := [][]byte{{1, 0}, {1, 0, 1}}
	require.ErrorIs(t, l.Save(ctx, "ragged", ragged, nil), ErrRagged)
}

func TestVectorPackLayout(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	l := New(bs)

	require.NoError(t, l.Save(ctx, "test", testVectors, nil))

	pack, err := bs.Get(ctx, "lib/test/vectors.bin")
	require.NoError(t, err)
	require.Len(t, pack, 8+3*8)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(pack[0:4]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(pack[4:8]))
	assert.Equal(t, testVectors[0], pack[8:16])
}

func TestLoadMissing(t *testing.T) {
	l := New(blobstore.NewMemoryStore())

	_, _, err := l.Load(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadTruncated(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	l := New(bs)

	// Header promises 10 vectors, payload has none.
	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint32(hdr[0:4], 10)
	binary.LittleEndian.PutUint32(hdr[4:8], 8)
	require.NoError(t, bs.Put(ctx, "lib/bad/vectors.bin", hdr))

	_, _, err := l.Load(ctx, "bad")
	require.ErrorIs(t, err, ErrTruncated)
}

func TestMerge(t *testing.T) {
	ctx := context.Background()
	l := New(blobstore.NewMemoryStore())
	require.NoError(t, l.Save(ctx, "test", testVectors, testLabels))

	t.Run("Defaults", func(t *testing.T) {
		st := newTestStore(t, 8)

		count, err := l.Merge(ctx, "test", st)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		// Each vector replayed 3 times by default.
		assert.Equal(t, uint64(9), st.Stats().TotalWrites)
	})

	t.Run("CustomReinforcement", func(t *testing.T) {
		st := newTestStore(t, 8)

		count, err := l.Merge(ctx, "test", st, func(o *MergeOptions) {
			o.Reinforcement = 1
			o.Strength = 5
		})
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, uint64(3), st.Stats().TotalWrites)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		st := newTestStore(t, 16)

		_, err := l.Merge(ctx, "test", st)
		var dm *store.ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 16, dm.Expected)
		assert.Equal(t, 8, dm.Actual)
		// Rejected before any write.
		assert.Zero(t, st.Stats().TotalWrites)
	})

	t.Run("Missing", func(t *testing.T) {
		st := newTestStore(t, 8)

		_, err := l.Merge(ctx, "nope", st)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInfoAndList(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	l := New(bs)

	require.NoError(t, l.Save(ctx, "words", testVectors, testLabels))
	require.NoError(t, l.Save(ctx, "nums", testVectors, nil))

	t.Run("Info", func(t *testing.T) {
		info, err := l.Info(ctx, "words")
		require.NoError(t, err)
		assert.Equal(t, "words", info.Name)
		assert.Equal(t, 3, info.VectorCount)
		assert.Equal(t, 8, info.VectorDim)
		assert.Equal(t, int64(8+3*8), info.FileSize)
		assert.Equal(t, Version, info.Version)
	})

	t.Run("InfoFallsBackToPackHeader", func(t *testing.T) {
		require.NoError(t, bs.Delete(ctx, "lib/words/info.json"))

		info, err := l.Info(ctx, "words")
		require.NoError(t, err)
		assert.Equal(t, 3, info.VectorCount)
		assert.Equal(t, 8, info.VectorDim)
	})

	t.Run("List", func(t *testing.T) {
		infos, err := l.List(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, "nums", infos[0].Name)
		assert.Equal(t, "words", infos[1].Name)
	})

	t.Run("InfoMissing", func(t *testing.T) {
		_, err := l.Info(ctx, "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestArchive(t *testing.T) {
	ctx := context.Background()
	l := New(blobstore.NewMemoryStore())
	require.NoError(t, l.Save(ctx, "test", testVectors, testLabels))

	var buf bytes.Buffer
	require.NoError(t, l.Export(ctx, "test", &buf))

	// Restore under a different name on a different device.
	l2 := New(blobstore.NewMemoryStore())
	require.NoError(t, l2.Import(ctx, "restored", &buf))

	vectors, labels, err := l2.Load(ctx, "restored")
	require.NoError(t, err)
	assert.Equal(t, testVectors, vectors)
	assert.Equal(t, testLabels, labels)

	t.Run("ExportMissing", func(t *testing.T) {
		require.ErrorIs(t, l.Export(ctx, "nope", &bytes.Buffer{}), ErrNotFound)
	})

	t.Run("ImportGarbage", func(t *testing.T) {
		require.Error(t, l.Import(ctx, "bad", strings.NewReader("not a gzip stream")))
	})
}

func TestSeedLibraries(t *testing.T) {
	ctx := context.Background()
	l := New(blobstore.NewMemoryStore())

	t.Run("CommonWords", func(t *testing.T) {
		require.NoError(t, l.SaveCommonWords(ctx, 128))

		vectors, labels, err := l.Load(ctx, "common_words")
		require.NoError(t, err)
		assert.Len(t, vectors, len(labels))
		assert.Equal(t, "THE", labels[0])
		assert.Len(t, vectors[0], 128)
	})

	t.Run("Numbers", func(t *testing.T) {
		require.NoError(t, l.SaveNumbers(ctx, 64))

		vectors, labels, err := l.Load(ctx, "numbers")
		require.NoError(t, err)
		require.Len(t, vectors, 101)
		assert.Equal(t, "0", labels[0])
		assert.Equal(t, "100", labels[100])
	})
}

func TestSaveFromStore(t *testing.T) {
	ctx := context.Background()
	l := New(blobstore.NewMemoryStore())
	st := newTestStore(t, 8)

	v := []byte{1, 1, 0, 0, 1, 0, 0, 0}
	for range 6 {
		_, err := st.Write(v, 1)
		require.NoError(t, err)
	}

	require.NoError(t, l.SaveFromStore(ctx, "learned", st))

	vectors, labels, err := l.Load(ctx, "learned")
	require.NoError(t, err)
	require.Len(t, vectors, 16)
	for i, got := range vectors {
		assert.Equal(t, v, got)
		assert.True(t, strings.HasPrefix(labels[i], "pattern_"))
		assert.True(t, strings.HasSuffix(labels[i], "_access_6"))
	}

	t.Run("NothingLearned", func(t *testing.T) {
		fresh := newTestStore(t, 8)
		require.ErrorIs(t, l.SaveFromStore(ctx, "empty", fresh), ErrEmpty)
	})
}
