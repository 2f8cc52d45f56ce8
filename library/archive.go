package library

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/hupe1980/sdmgo/blobstore"
)

// archive member names inside the tarball.
var archiveFiles = []string{"vectors.bin", "labels.txt", "info.json"}

// Export writes a library as a gzip-compressed tar stream, for backup or
// transfer between devices. The vector pack is required; labels and
// metadata are included when present.
func (l *Library) Export(ctx context.Context, name string, w io.Writer) error {
	if ok, err := l.bs.Exists(ctx, vectorsPath(name)); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	for _, file := range archiveFiles {
		data, err := l.bs.Get(ctx, Prefix+name+"/"+file)
		if errors.Is(err, blobstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		hdr := &tar.Header{
			Name:    file,
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: time.Now(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tw.Write(data); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// Import restores a library from a gzip-compressed tar stream produced
// by Export. Unknown archive members are ignored; the archive must
// contain a vector pack.
func (l *Library) Import(ctx context.Context, name string, r io.Reader) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()

	files := make(map[string][]byte)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		known := false
		for _, file := range archiveFiles {
			if hdr.Name == file {
				known = true
				break
			}
		}
		if !known {
			continue
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, tr); err != nil {
			return err
		}
		files[hdr.Name] = buf.Bytes()
	}

	if _, ok := files["vectors.bin"]; !ok {
		return fmt.Errorf("%w: archive has no vector pack", ErrTruncated)
	}

	for file, data := range files {
		if err := l.bs.Put(ctx, Prefix+name+"/"+file, data); err != nil {
			return err
		}
	}
	return nil
}
