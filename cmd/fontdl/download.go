package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/fontdl/download"
	"golang.org/x/term"
)

// DownloadCmd handles the main download operation.
type DownloadCmd struct {
	Query   string
	Formats []string
	Dir     string
	Cursor  string
}

// Run executes the download command. It logs one line per downloaded
// archive and stops at the first error.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	var count int
	var total int64
	for res, err := range deps.Downloader.All(deps.Ctx, c.Query, c.Formats, c.Dir, c.Cursor) {
		if err != nil {
			deps.Logger.Error("download failed", "downloaded", count, "err", err)
			return err
		}
		count++
		total += res.Bytes
		deps.Logger.Info("downloaded",
			"id", res.Row.ID,
			"name", res.Row.FullName,
			"author", res.Row.AuthorLabel,
			"path", res.Path,
			"bytes", res.Bytes,
			"digest", res.Digest,
			"cursor", res.Cursor,
		)
	}

	deps.Logger.Info("done", "query", c.Query, "count", count, "size", download.FormatBytes(total))
	return nil
}

// promptQuery reads the search query from in. When in is a terminal the
// prompt is written to out first.
func promptQuery(in io.Reader, out io.Writer) (string, error) {
	if in == nil {
		return "", errors.New("query is required")
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Query to search: ")
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read query: %w", err)
	}
	query := strings.TrimSpace(line)
	if query == "" {
		return "", errors.New("query is required")
	}
	return query, nil
}
