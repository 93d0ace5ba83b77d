// Package fs provides file-based storage for downloaded archives.
package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/fontdl"
)

// DefaultChunkSize is the size of each read from the source stream.
const DefaultChunkSize = 8192

// Writer streams content to files on disk in fixed-size chunks.
type Writer struct {
	chunkSize int
}

// Option configures a Writer.
type Option func(*Writer)

// WithChunkSize sets the read chunk size.
// Defaults to DefaultChunkSize if not specified or not positive.
func WithChunkSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.chunkSize = n
		}
	}
}

// NewWriter creates a new Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteFile creates path and copies r into it chunk by chunk.
// Parent directories are created as needed. On failure the partially
// written file is left in place.
func (w *Writer) WriteFile(ctx context.Context, path string, r io.Reader) (*fontdl.Written, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fontdl.WrapError(fontdl.EIO, err, "create directory %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fontdl.WrapError(fontdl.EIO, err, "create %s", path)
	}

	h := xxhash.New()
	n, copyErr := CopyChunks(ctx, io.MultiWriter(f, h), r, w.chunkSize)
	if err := f.Close(); err != nil && copyErr == nil {
		copyErr = fontdl.WrapError(fontdl.EIO, err, "close %s", path)
	}
	if copyErr != nil {
		return nil, copyErr
	}

	return &fontdl.Written{
		Path:   path,
		Bytes:  n,
		Digest: strconv.FormatUint(h.Sum64(), 16),
	}, nil
}

// CopyChunks copies src to dst reading at most size bytes at a time.
// Zero-length reads are skipped rather than written. Write failures are
// returned as EIO errors; read failures are returned unchanged.
func CopyChunks(ctx context.Context, dst io.Writer, src io.Reader, size int) (int64, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}

	buf := make([]byte, size)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			m, werr := dst.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, fontdl.WrapError(fontdl.EIO, werr, "write chunk")
			}
			if m != n {
				return written, fontdl.WrapError(fontdl.EIO, io.ErrShortWrite, "write chunk")
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, nil
			}
			return written, rerr
		}
	}
}
