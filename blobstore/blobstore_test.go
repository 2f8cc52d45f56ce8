package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract exercises the Store interface against any backend.
func storeContract(t *testing.T, bs Store) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		_, err := bs.Get(ctx, "missing.bin")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, bs.Put(ctx, "sdm/memory.bin", []byte{1, 2, 3}))

		data, err := bs.Get(ctx, "sdm/memory.bin")
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data)
	})

	t.Run("PutReplaces", func(t *testing.T) {
		require.NoError(t, bs.Put(ctx, "replace.bin", []byte("old")))
		require.NoError(t, bs.Put(ctx, "replace.bin", []byte("new")))

		data, err := bs.Get(ctx, "replace.bin")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), data)
	})

	t.Run("Append", func(t *testing.T) {
		require.NoError(t, bs.Append(ctx, "log.csv", []byte("a,b\n")))
		require.NoError(t, bs.Append(ctx, "log.csv", []byte("1,2\n")))

		data, err := bs.Get(ctx, "log.csv")
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(data))
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := bs.Exists(ctx, "sdm/memory.bin")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = bs.Exists(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Size", func(t *testing.T) {
		size, err := bs.Size(ctx, "sdm/memory.bin")
		require.NoError(t, err)
		assert.Equal(t, int64(3), size)

		_, err = bs.Size(ctx, "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, bs.Put(ctx, "lib/words/vectors.bin", []byte{0}))
		require.NoError(t, bs.Put(ctx, "lib/words/labels.txt", []byte{0}))
		require.NoError(t, bs.Put(ctx, "lib/nums/vectors.bin", []byte{0}))

		names, err := bs.List(ctx, "lib/")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"lib/nums/vectors.bin",
			"lib/words/labels.txt",
			"lib/words/vectors.bin",
		}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, bs.Put(ctx, "gone.bin", []byte{1}))
		require.NoError(t, bs.Delete(ctx, "gone.bin"))

		_, err := bs.Get(ctx, "gone.bin")
		require.ErrorIs(t, err, ErrNotFound)

		// Deleting a missing blob is not an error.
		require.NoError(t, bs.Delete(ctx, "gone.bin"))
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	bs, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	storeContract(t, bs)
}
