// Package download provides the download orchestration loop.
// It pages through search results, resolves a download URL per row and
// streams each archive to disk, yielding one result per row.
package download

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/fontdl"
	"golang.org/x/sync/errgroup"
)

// Downloader orchestrates search, URL resolution and download.
//
// Pages are always fetched one at a time. With Concurrency above 1 the rows
// of a page are downloaded in parallel and yielded in completion order;
// otherwise rows are processed strictly in order.
type Downloader struct {
	Catalog fontdl.Catalog
	Files   fontdl.FileDownloader

	// Optional request pacing.
	Limiter fontdl.Limiter

	// Optional duplicate suppression. Rows whose ID was already processed
	// in this run are skipped.
	Seen fontdl.SeenSet

	// MaxPages stops the run after this many search pages. Zero means no limit.
	MaxPages int

	// MaxDuration stops the run before requesting a new page once this much
	// time has elapsed. Zero means no limit. In-flight downloads are not
	// interrupted.
	MaxDuration time.Duration

	Concurrency int

	Logger *slog.Logger
}

// All returns a lazy sequence of downloaded rows for query, starting at
// cursor. Nothing is requested until the sequence is ranged over, and
// breaking out of the loop stops all further requests.
//
// The first error ends the sequence; it is yielded once with a nil result.
// An empty cursor starts from fontdl.StartCursor and empty formats default
// to fontdl.DefaultFormats.
func (d *Downloader) All(ctx context.Context, query string, formats []string, dir, cursor string) iter.Seq2[*fontdl.Result, error] {
	if cursor == "" {
		cursor = fontdl.StartCursor
	}
	if len(formats) == 0 {
		formats = fontdl.DefaultFormats
	}

	return func(yield func(*fontdl.Result, error) bool) {
		cursor := cursor
		start := time.Now()
		pages := 0

		for cursor != "" {
			if d.MaxPages > 0 && pages >= d.MaxPages {
				yield(nil, fontdl.Errorf(fontdl.ELIMIT, "stopped after %d pages; resume with cursor %q", pages, cursor))
				return
			}
			if d.MaxDuration > 0 && pages > 0 && time.Since(start) >= d.MaxDuration {
				yield(nil, fontdl.Errorf(fontdl.ELIMIT, "stopped after %s; resume with cursor %q", d.MaxDuration, cursor))
				return
			}

			if err := d.wait(ctx); err != nil {
				yield(nil, err)
				return
			}
			page, err := d.Catalog.Search(ctx, query, cursor)
			if err != nil {
				yield(nil, err)
				return
			}
			pages++
			if err := page.Validate(); err != nil {
				yield(nil, err)
				return
			}

			if len(page.Rows) == 0 && page.Done() {
				return
			}

			j := job{formats: formats, dir: dir, cursor: cursor}
			var ok bool
			if d.Concurrency > 1 {
				ok = d.pageConcurrent(ctx, page.Rows, j, yield)
			} else {
				ok = d.pageSequential(ctx, page.Rows, j, yield)
			}
			if !ok {
				return
			}

			cursor = page.Next
		}
	}
}

// job holds the per-run parameters shared by every row of a page.
type job struct {
	formats []string
	dir     string
	cursor  string
}

func (d *Downloader) pageSequential(ctx context.Context, rows []fontdl.Row, j job, yield func(*fontdl.Result, error) bool) bool {
	for _, row := range rows {
		if d.duplicate(row) {
			continue
		}
		res, err := d.fetch(ctx, row, j)
		if err != nil {
			yield(nil, err)
			return false
		}
		if !yield(res, nil) {
			return false
		}
	}
	return true
}

func (d *Downloader) pageConcurrent(ctx context.Context, rows []fontdl.Row, j job, yield func(*fontdl.Result, error) bool) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Concurrency)

	results := make(chan *fontdl.Result)
	errc := make(chan error, 1)

	go func() {
		for _, row := range rows {
			if gctx.Err() != nil {
				break
			}
			if d.duplicate(row) {
				continue
			}
			g.Go(func() error {
				res, err := d.fetch(gctx, row, j)
				if err != nil {
					return err
				}
				select {
				case results <- res:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		errc <- g.Wait()
		close(results)
	}()

	for res := range results {
		if !yield(res, nil) {
			cancel()
			for range results {
			}
			return false
		}
	}

	if err := <-errc; err != nil {
		yield(nil, err)
		return false
	}
	return true
}

// fetch resolves and downloads a single row.
func (d *Downloader) fetch(ctx context.Context, row fontdl.Row, j job) (*fontdl.Result, error) {
	path, err := fontdl.Destination(j.dir, row)
	if err != nil {
		return nil, err
	}

	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	url, err := d.Catalog.ResolveDownloadURL(ctx, row.ID, row.ShortName, j.formats)
	if err != nil {
		return nil, err
	}

	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	written, err := d.Files.Download(ctx, url, path)
	if err != nil {
		return nil, err
	}

	return &fontdl.Result{
		Row:    row,
		Path:   written.Path,
		Cursor: j.cursor,
		Bytes:  written.Bytes,
		Digest: written.Digest,
	}, nil
}

// duplicate reports whether row was already processed and records it
// otherwise.
func (d *Downloader) duplicate(row fontdl.Row) bool {
	if d.Seen == nil {
		return false
	}
	if d.Seen.Test(row.ID) {
		d.logger().Debug("skip duplicate row", "id", row.ID, "name", row.ShortName)
		return true
	}
	d.Seen.Add(row.ID)
	return false
}

func (d *Downloader) wait(ctx context.Context) error {
	if d.Limiter == nil {
		return nil
	}
	return d.Limiter.Wait(ctx)
}

func (d *Downloader) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
