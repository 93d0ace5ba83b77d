// Package slog provides log/slog decorators for fontdl services.
package slog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/fontdl"
)

// Ensure LoggingCatalog implements fontdl.Catalog.
var _ fontdl.Catalog = (*LoggingCatalog)(nil)

// LoggingCatalog wraps a Catalog with debug logging.
type LoggingCatalog struct {
	next   fontdl.Catalog
	logger *slog.Logger
}

// NewLoggingCatalog creates a new LoggingCatalog.
func NewLoggingCatalog(next fontdl.Catalog, logger *slog.Logger) *LoggingCatalog {
	return &LoggingCatalog{next: next, logger: logger}
}

// Search delegates to the wrapped catalog and logs the request.
func (c *LoggingCatalog) Search(ctx context.Context, query, cursor string) (page *fontdl.Page, err error) {
	defer func(begin time.Time) {
		var rows int
		var next string
		if page != nil {
			rows, next = len(page.Rows), page.Next
		}
		c.logger.Debug("search",
			"query", query,
			"cursor", cursor,
			"rows", rows,
			"next", next,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Search(ctx, query, cursor)
}

// ResolveDownloadURL delegates to the wrapped catalog and logs the request.
func (c *LoggingCatalog) ResolveDownloadURL(ctx context.Context, id, name string, formats []string) (url string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("resolve download url",
			"id", id,
			"name", name,
			"formats", strings.Join(formats, "|"),
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ResolveDownloadURL(ctx, id, name, formats)
}
