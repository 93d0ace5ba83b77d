package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fontdl"
)

var _ fontdl.FileDownloader = (*LoggingFileDownloader)(nil)

// LoggingFileDownloader wraps a FileDownloader with debug logging.
type LoggingFileDownloader struct {
	next   fontdl.FileDownloader
	logger *slog.Logger
}

// NewLoggingFileDownloader creates a new LoggingFileDownloader.
func NewLoggingFileDownloader(next fontdl.FileDownloader, logger *slog.Logger) *LoggingFileDownloader {
	return &LoggingFileDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the transfer.
func (d *LoggingFileDownloader) Download(ctx context.Context, url, path string) (w *fontdl.Written, err error) {
	defer func(begin time.Time) {
		var n int64
		if w != nil {
			n = w.Bytes
		}
		d.logger.Debug("download",
			"url", url,
			"path", path,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, url, path)
}
