package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/fontdl/bloom"
	"github.com/fwojciec/fontdl/download"
	fontdlhttp "github.com/fwojciec/fontdl/http"
	fontslog "github.com/fwojciec/fontdl/slog"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read when the query must be prompted for.
	Stdin io.Reader

	// ClientOptions are applied after the flag-derived options when
	// building the provider client. Used to point tests at a fake provider.
	ClientOptions []fontdlhttp.Option
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("fontdl"),
		kong.Description("Search the font catalog and download every matching font archive"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	formats := splitFormats(cli.Formats)
	if len(formats) == 0 {
		return fmt.Errorf("at least one format is required")
	}

	query := strings.TrimSpace(cli.Query)
	if query == "" {
		query, err = promptQuery(m.Stdin, stderr)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cli.To, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", cli.To, err)
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString())

	// Wire dependencies
	opts := []fontdlhttp.Option{
		fontdlhttp.WithTimeout(cli.Timeout),
		fontdlhttp.WithUserAgent(cli.UserAgent),
	}
	client := fontdlhttp.NewClient(append(opts, m.ClientOptions...)...)

	concurrency := cli.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Logger: logger,
	}
	deps.Downloader = &download.Downloader{
		Catalog:     fontslog.NewLoggingCatalog(client, logger),
		Files:       fontslog.NewLoggingFileDownloader(client, logger),
		Seen:        bloom.NewSet(bloom.DefaultCapacity),
		MaxPages:    cli.MaxPages,
		MaxDuration: cli.MaxDuration,
		Concurrency: concurrency,
		Logger:      logger,
	}
	if cli.Rate > 0 {
		deps.Downloader.Limiter = download.NewRateLimiter(cli.Rate)
	}

	cmd := &DownloadCmd{
		Query:   query,
		Formats: formats,
		Dir:     cli.To,
		Cursor:  cli.Cursor,
	}

	return cmd.Run(deps)
}

// splitFormats trims and drops empty entries from the --formats list.
func splitFormats(in []string) []string {
	var out []string
	for _, f := range in {
		for _, part := range strings.Split(f, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
