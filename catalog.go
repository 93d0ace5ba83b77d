package fontdl

import (
	"context"
)

// StartCursor is the cursor that starts a search. The provider misbehaves
// when the cursor is omitted, so the first request always sends "00".
const StartCursor = "00"

// DefaultFormats are the archive formats requested when none are given.
var DefaultFormats = []string{"fontface", "ttf"}

// Page is one page of search results.
type Page struct {
	Rows []Row

	// Next is the cursor of the following page. Empty means no more pages.
	Next string
}

// Done reports whether the provider signaled there are no more pages.
func (p *Page) Done() bool {
	return p.Next == ""
}

// Validate returns an error if the page is inconsistent.
// An empty page must not point at a next page.
func (p *Page) Validate() error {
	if len(p.Rows) == 0 && p.Next != "" {
		return Errorf(EPROTOCOL, "empty page with next cursor %q", p.Next)
	}
	return nil
}

// Catalog is the provider's search and download-resolution API.
type Catalog interface {
	// Search returns the page of results for query at cursor.
	// The first page must be requested with StartCursor.
	Search(ctx context.Context, query, cursor string) (*Page, error)

	// ResolveDownloadURL returns the archive URL for the row with the given
	// id. name is the row's short name; formats is a non-empty ordered list
	// of format identifiers.
	ResolveDownloadURL(ctx context.Context, id, name string, formats []string) (string, error)
}

// Written describes a file written to disk.
type Written struct {
	Path   string
	Bytes  int64
	Digest string // xxhash64, hex
}

// FileDownloader streams a remote file to a local path.
type FileDownloader interface {
	// Download fetches url and writes the body to path. Partially written
	// files are left in place on failure.
	Download(ctx context.Context, url, path string) (*Written, error)
}

// Result is emitted for every downloaded row.
type Result struct {
	Row  Row
	Path string

	// Cursor of the page the row came from. Passing it back as the start
	// cursor restarts the run from that page.
	Cursor string

	Bytes  int64
	Digest string
}

// Limiter paces requests to the provider.
type Limiter interface {
	// Wait blocks until the next request is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}

// SeenSet remembers row IDs processed during a run.
type SeenSet interface {
	// Add records id.
	Add(id string)

	// Test reports whether id might have been recorded.
	Test(id string) bool
}
