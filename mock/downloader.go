package mock

import (
	"context"

	"github.com/fwojciec/fontdl"
)

var _ fontdl.FileDownloader = (*FileDownloader)(nil)

// FileDownloader is a mock implementation of fontdl.FileDownloader.
type FileDownloader struct {
	DownloadFn func(ctx context.Context, url, path string) (*fontdl.Written, error)
}

func (d *FileDownloader) Download(ctx context.Context, url, path string) (*fontdl.Written, error) {
	return d.DownloadFn(ctx, url, path)
}
