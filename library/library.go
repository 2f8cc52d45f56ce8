// Package library manages named, frozen vector sets on the block
// device. A library is a directory under lib/<name>/ holding a binary
// vector pack, an optional positional label list and a metadata
// document. Libraries are merged into a live Store by replaying their
// vectors through write.
package library

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sdmgo/blobstore"
	"github.com/hupe1980/sdmgo/codec"
	"github.com/hupe1980/sdmgo/store"
)

// Prefix is the device directory all libraries live under.
const Prefix = "lib/"

// Version is written to every info document.
const Version = "1.0"

const vectorsHeaderSize = 8

var (
	// ErrNotFound is returned when a named library does not exist.
	// Library loads are explicit user requests, so this is a hard
	// failure, unlike the engine's soft state misses.
	ErrNotFound = errors.New("library not found")

	// ErrTruncated is returned when a vector pack is shorter than its
	// header declares.
	ErrTruncated = errors.New("library vector pack truncated")

	// ErrEmpty is returned when saving a library with no vectors.
	ErrEmpty = errors.New("library has no vectors")

	// ErrRagged is returned when saved vectors have differing lengths.
	ErrRagged = errors.New("library vectors have differing dimensions")
)

// Info is the metadata document of one library.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	VectorCount int    `json:"vector_count" yaml:"vector_count"`
	FileSize    int64  `json:"file_size" yaml:"file_size"`
	VectorDim   int    `json:"vector_dim" yaml:"vector_dim"`
	CreatedAt   int64  `json:"creation_time" yaml:"creation_time"`
	Version     string `json:"version" yaml:"version"`
}

// Options contains optional settings for a Library.
type Options struct {
	// Codec encodes info documents. Defaults to codec.Default.
	Codec codec.Codec
}

// Library is a transient view over the block device. It mutates a Store
// only through write, during Merge.
type Library struct {
	bs    blobstore.Store
	codec codec.Codec
}

// New creates a Library over the given blob store.
func New(bs blobstore.Store, optFns ...func(o *Options)) *Library {
	opts := Options{
		Codec: codec.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	return &Library{bs: bs, codec: opts.Codec}
}

func vectorsPath(name string) string { return Prefix + name + "/vectors.bin" }
func labelsPath(name string) string  { return Prefix + name + "/labels.txt" }
func infoPath(name string) string    { return Prefix + name + "/info.json" }

// Save writes a library: a vector pack, optional labels aligned
// positionally to the vectors, and a metadata document. All vectors must
// share one dimension.
func (l *Library) Save(ctx context.Context, name string, vectors [][]byte, labels []string) error {
	if len(vectors) == 0 {
		return ErrEmpty
	}
	dim := len(vectors[0])
	for _, v := range vectors {
		if len(v) != dim {
			return ErrRagged
		}
	}

	pack := make([]byte, vectorsHeaderSize, vectorsHeaderSize+len(vectors)*dim)
	binary.LittleEndian.PutUint32(pack[0:4], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(pack[4:8], uint32(dim))
	for _, v := range vectors {
		pack = append(pack, v...)
	}
	if err := l.bs.Put(ctx, vectorsPath(name), pack); err != nil {
		return err
	}

	if len(labels) > 0 {
		var buf bytes.Buffer
		for _, label := range labels {
			buf.WriteString(label)
			buf.WriteByte('\n')
		}
		if err := l.bs.Put(ctx, labelsPath(name), buf.Bytes()); err != nil {
			return err
		}
	}

	info := Info{
		Name:        name,
		VectorCount: len(vectors),
		FileSize:    int64(len(pack)),
		VectorDim:   dim,
		CreatedAt:   time.Now().UnixMilli(),
		Version:     Version,
	}
	data, err := l.codec.Marshal(info)
	if err != nil {
		return err
	}
	return l.bs.Put(ctx, infoPath(name), data)
}

// Load reads a library's vectors and labels. A missing library is a hard
// failure. Labels are optional; a missing label file yields nil labels.
func (l *Library) Load(ctx context.Context, name string) (vectors [][]byte, labels []string, err error) {
	pack, err := l.bs.Get(ctx, vectorsPath(name))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, nil, err
	}
	if len(pack) < vectorsHeaderSize {
		return nil, nil, ErrTruncated
	}

	count := int(binary.LittleEndian.Uint32(pack[0:4]))
	dim := int(binary.LittleEndian.Uint32(pack[4:8]))
	if len(pack) < vectorsHeaderSize+count*dim {
		return nil, nil, ErrTruncated
	}

	vectors = make([][]byte, count)
	off := vectorsHeaderSize
	for i := range vectors {
		v := make([]byte, dim)
		copy(v, pack[off:off+dim])
		vectors[i] = v
		off += dim
	}

	if data, err := l.bs.Get(ctx, labelsPath(name)); err == nil {
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			label := strings.TrimSpace(sc.Text())
			if label != "" {
				labels = append(labels, label)
			}
		}
	}

	return vectors, labels, nil
}

// MergeOptions contains optional settings for Merge.
type MergeOptions struct {
	// Reinforcement is how many times each vector is replayed.
	Reinforcement int
	// Strength is the write strength of each replay.
	Strength int
}

// Merge replays every vector of a library through st.Write. The library
// dimension must equal the Store's; otherwise the merge is rejected
// before any write. Returns the number of vectors merged.
func (l *Library) Merge(ctx context.Context, name string, st *store.Store, optFns ...func(o *MergeOptions)) (int, error) {
	opts := MergeOptions{
		Reinforcement: 3,
		Strength:      2,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	vectors, _, err := l.Load(ctx, name)
	if err != nil {
		return 0, err
	}
	if len(vectors) > 0 && len(vectors[0]) != st.Config().VectorDim {
		return 0, &store.ErrDimensionMismatch{
			Expected: st.Config().VectorDim,
			Actual:   len(vectors[0]),
		}
	}

	for _, v := range vectors {
		for range opts.Reinforcement {
			if _, err := st.Write(v, opts.Strength); err != nil {
				return 0, err
			}
		}
	}
	return len(vectors), nil
}

// Info reads a library's metadata document. When the document is absent
// the metadata is reconstructed from the vector pack header.
func (l *Library) Info(ctx context.Context, name string) (Info, error) {
	if data, err := l.bs.Get(ctx, infoPath(name)); err == nil {
		var info Info
		if err := l.codec.Unmarshal(data, &info); err == nil {
			return info, nil
		}
	}

	pack, err := l.bs.Get(ctx, vectorsPath(name))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Info{}, err
	}
	if len(pack) < vectorsHeaderSize {
		return Info{}, ErrTruncated
	}
	return Info{
		Name:        name,
		VectorCount: int(binary.LittleEndian.Uint32(pack[0:4])),
		FileSize:    int64(len(pack)),
		VectorDim:   int(binary.LittleEndian.Uint32(pack[4:8])),
	}, nil
}

// List enumerates all libraries on the device. A directory counts as a
// library when it contains a vector pack. Metadata documents are read
// concurrently.
func (l *Library) List(ctx context.Context) ([]Info, error) {
	blobs, err := l.bs.List(ctx, Prefix)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, blob := range blobs {
		rest := strings.TrimPrefix(blob, Prefix)
		name, file, ok := strings.Cut(rest, "/")
		if !ok || file != "vectors.bin" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]Info, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			info, err := l.Info(gctx, name)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}
