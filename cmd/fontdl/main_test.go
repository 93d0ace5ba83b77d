package main_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/fontdl"
	main "github.com/fwojciec/fontdl/cmd/fontdl"
	fontdlhttp "github.com/fwojciec/fontdl/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves search, resolve and file endpoints and records the
// path and query of every request.
type fakeProvider struct {
	server *httptest.Server
	pages  map[string]string

	mu       sync.Mutex
	requests []string
}

func newFakeProvider(t *testing.T, pages map[string]string) *fakeProvider {
	t.Helper()

	p := &fakeProvider{pages: pages}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.requests = append(p.requests, r.URL.Path+"?"+r.URL.RawQuery)
		p.mu.Unlock()

		q := r.URL.Query()
		switch {
		case r.URL.Path == "/ajax.html":
			body, ok := p.pages[q.Get("p")]
			if !ok {
				body = `({"error":"unknown page"})`
			}
			_, _ = io.WriteString(w, body)
		case r.URL.Path == "/cdn/ajax.html":
			_, _ = fmt.Fprintf(w, `({"data":"%s/files/%s.zip"})`, p.server.URL, q.Get("id"))
		case strings.HasPrefix(r.URL.Path, "/files/"):
			_, _ = io.WriteString(w, "payload-"+strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/files/"), ".zip"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) Requests() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requests...)
}

func (p *fakeProvider) main() *main.Main {
	m := main.NewMain()
	m.Stdin = strings.NewReader("")
	m.ClientOptions = []fontdlhttp.Option{
		fontdlhttp.WithSearchURL(p.server.URL + "/ajax.html"),
		fontdlhttp.WithResolveURL(p.server.URL + "/cdn/ajax.html"),
	}
	return m
}

const arialPage = `({"p":"20","data":[` +
	`["1","Arial Regular","arial-regular","sans_serif","Sans Serif","monotype","Monotype","120 KB"],` +
	`["2","Arial Bold","arial-bold","sans_serif","Sans Serif","monotype","Monotype","130 KB"]` +
	`]})`

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "fontdl")
	assert.Contains(t, stdout.String(), "--query")
	assert.Contains(t, stdout.String(), "--formats")
}

func TestMain_Run_UnknownFlag(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--bogus"}, &stdout, &stderr)

	assert.Error(t, err)
}

// Story: Downloading every result of a search
//
// A user searches for a font name. Every result row is resolved to an
// archive URL and written to the output directory under a name built from
// the row's author, short name and id.

func TestMain_Run_DownloadsAllResults(t *testing.T) {
	t.Parallel()

	// Given: a provider returning one page of two rows, then the end sentinel
	p := newFakeProvider(t, map[string]string{
		"00": arialPage,
		"20": `({"data":"end"})`,
	})
	dir := filepath.Join(t.TempDir(), "fonts")
	var stdout, stderr bytes.Buffer

	// When: downloading "arial"
	err := p.main().Run(context.Background(), []string{"--query", "arial", "--to", dir}, &stdout, &stderr)

	// Then: both archives are written with the served bytes
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(dir, "monotype-arial-regular-1.zip"))
	require.NoError(t, err)
	assert.Equal(t, "payload-1", string(got))
	got, err = os.ReadFile(filepath.Join(dir, "monotype-arial-bold-2.zip"))
	require.NoError(t, err)
	assert.Equal(t, "payload-2", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// And: one log line per file, in row order
	logs := stderr.String()
	assert.Equal(t, 2, strings.Count(logs, "msg=downloaded"))
	assert.Less(t, strings.Index(logs, "arial-regular-1.zip"), strings.Index(logs, "arial-bold-2.zip"))
	assert.Contains(t, logs, "run=")

	// And: no request is made after the end sentinel
	assert.Len(t, p.Requests(), 6)
}

func TestMain_Run_PromptsForQuery(t *testing.T) {
	t.Parallel()

	// Given: no --query flag and a query on stdin
	p := newFakeProvider(t, map[string]string{"00": `({"data":"end"})`})
	m := p.main()
	m.Stdin = strings.NewReader("arial\n")
	var stdout, stderr bytes.Buffer

	// When: running
	err := m.Run(context.Background(), []string{"--to", t.TempDir()}, &stdout, &stderr)

	// Then: the query read from stdin is searched
	require.NoError(t, err)
	require.Len(t, p.Requests(), 1)
	assert.Contains(t, p.Requests()[0], "q=arial")
}

func TestMain_Run_RequiresQuery(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(t, map[string]string{})
	var stdout, stderr bytes.Buffer

	err := p.main().Run(context.Background(), []string{"--to", t.TempDir()}, &stdout, &stderr)

	require.Error(t, err)
	assert.Empty(t, p.Requests())
}

func TestMain_Run_RequiresFormats(t *testing.T) {
	t.Parallel()

	p := newFakeProvider(t, map[string]string{})
	var stdout, stderr bytes.Buffer

	err := p.main().Run(context.Background(), []string{"-q", "arial", "--formats", " , "}, &stdout, &stderr)

	require.Error(t, err)
	assert.Empty(t, p.Requests())
}

// Story: Failures abort the run
//
// Any provider error stops the run immediately and is reported with the
// offending request URL.

func TestMain_Run_ProviderErrorAbortsRun(t *testing.T) {
	t.Parallel()

	// Given: a provider whose search answers with an error
	p := newFakeProvider(t, map[string]string{"00": `({"error":"Search is disabled"})`})
	var stdout, stderr bytes.Buffer

	// When: running
	err := p.main().Run(context.Background(), []string{"-q", "arial", "--to", t.TempDir()}, &stdout, &stderr)

	// Then: the provider error is returned with its URL and nothing else is requested
	require.Error(t, err)
	assert.Equal(t, fontdl.EPROVIDER, fontdl.ErrorCode(err))
	assert.Contains(t, fontdl.ErrorURL(err), "q=arial")
	assert.Len(t, p.Requests(), 1)
}

func TestMain_Run_CustomFormatsAndCursor(t *testing.T) {
	t.Parallel()

	// Given: a provider that only knows page "20"
	p := newFakeProvider(t, map[string]string{
		"20": `({"p":null,"data":[["7","Foo","foo","t","T","acme","Acme","1 KB"]]})`,
	})
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	// When: resuming from cursor 20 with custom formats
	err := p.main().Run(context.Background(), []string{"-q", "foo", "--to", dir, "--cursor", "20", "--formats", "otf,woff"}, &stdout, &stderr)

	// Then: the resolve request carries the joined formats
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "acme-foo-7.zip"))
	reqs := p.Requests()
	require.Len(t, reqs, 3)
	assert.Contains(t, reqs[1], "format=otf%7Cwoff")
}

func TestMain_Run_MaxPages(t *testing.T) {
	t.Parallel()

	// Given: a provider that never sends the end sentinel
	p := newFakeProvider(t, map[string]string{
		"00": `({"p":"00","data":[["1","Foo","foo","t","T","acme","Acme","1 KB"]]})`,
	})
	var stdout, stderr bytes.Buffer

	// When: bounding the run to two pages
	err := p.main().Run(context.Background(), []string{"-q", "foo", "--to", t.TempDir(), "--max-pages", "2"}, &stdout, &stderr)

	// Then: the run stops with a limit error
	require.Error(t, err)
	assert.Equal(t, fontdl.ELIMIT, fontdl.ErrorCode(err))
}

func TestMain_Run_RejectsRowsEscapingOutputDirectory(t *testing.T) {
	t.Parallel()

	// Given: a provider whose row short name walks out of the output directory
	p := newFakeProvider(t, map[string]string{
		"00": `({"p":null,"data":[["1","Evil","x/../../escaped","t","T","acme","Acme","1 KB"]]})`,
	})
	root := t.TempDir()
	dir := filepath.Join(root, "fonts")
	var stdout, stderr bytes.Buffer

	// When: running
	err := p.main().Run(context.Background(), []string{"-q", "evil", "--to", dir}, &stdout, &stderr)

	// Then: the run fails before resolving and nothing is written anywhere
	require.Error(t, err)
	assert.Equal(t, fontdl.EPROTOCOL, fontdl.ErrorCode(err))
	assert.NoFileExists(t, filepath.Join(root, "escaped-1.zip"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Len(t, p.Requests(), 1)
}
