package mock

import (
	"context"

	"github.com/fwojciec/fontdl"
)

var _ fontdl.Catalog = (*Catalog)(nil)

// Catalog is a mock implementation of fontdl.Catalog.
type Catalog struct {
	SearchFn             func(ctx context.Context, query, cursor string) (*fontdl.Page, error)
	ResolveDownloadURLFn func(ctx context.Context, id, name string, formats []string) (string, error)
}

func (c *Catalog) Search(ctx context.Context, query, cursor string) (*fontdl.Page, error) {
	return c.SearchFn(ctx, query, cursor)
}

func (c *Catalog) ResolveDownloadURL(ctx context.Context, id, name string, formats []string) (string, error) {
	return c.ResolveDownloadURLFn(ctx, id, name, formats)
}
