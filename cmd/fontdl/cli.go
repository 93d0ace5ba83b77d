package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fontdl/download"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Logger     *slog.Logger
	Downloader *download.Downloader
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Query       string        `short:"q" env:"FONTDL_QUERY" help:"Query to search (prompted if omitted)"`
	Formats     []string      `short:"f" env:"FONTDL_FORMATS" default:"fontface,ttf" help:"Comma-separated archive formats"`
	To          string        `short:"t" env:"FONTDL_TO" default:"." help:"Directory to write archives to"`
	Cursor      string        `env:"FONTDL_CURSOR" default:"00" help:"Search cursor to start from"`
	MaxPages    int           `env:"FONTDL_MAX_PAGES" default:"0" help:"Stop after this many result pages (0 = no limit)"`
	MaxDuration time.Duration `env:"FONTDL_MAX_DURATION" default:"0s" help:"Stop requesting new pages after this long (0 = no limit)"`
	Concurrency int           `short:"c" env:"FONTDL_CONCURRENCY" default:"1" help:"Rows of a page downloaded in parallel"`
	Rate        float64       `env:"FONTDL_RATE" default:"0" help:"Maximum provider requests per second (0 = no limit)"`
	Timeout     time.Duration `env:"FONTDL_TIMEOUT" default:"0s" help:"Timeout per request (0 = none)"`
	UserAgent   string        `env:"FONTDL_USER_AGENT" help:"User-Agent header sent to the provider"`
	Verbose     bool          `short:"v" help:"Log every provider request"`
}
