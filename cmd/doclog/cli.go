package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/doclog"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Reference *doclog.Reference
	Fetcher   doclog.Fetcher
	Prober    doclog.Prober
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	Reference string `type:"path" env:"DOCLOG_REFERENCE" help:"Reference data YAML file (defaults to the built-in data)"`

	Download   DownloadCmd   `cmd:"" help:"Download the document log"`
	Convert    ConvertCmd    `cmd:"" help:"Convert the document log to document metadata"`
	Format     FormatCmd     `cmd:"" help:"Format published metadata as HTML document lists"`
	CheckLinks CheckLinksCmd `cmd:"" name:"check-links" help:"Check the links listed in the file list"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	URL    string `default:"${log_url}" help:"Document log URL"`
	Output string `short:"o" type:"path" default:"wg14_document_log.htm" help:"Local copy of the log"`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	Log    string `type:"path" default:"wg14_document_log.htm" help:"Local copy of the log"`
	Out    string `type:"path" default:"out" help:"Output directory"`
	DB     string `type:"path" help:"Also write an SQLite audit database"`
	Strict bool   `help:"Fail when previously published identifiers would change"`
}

// FormatCmd is the "format" subcommand.
type FormatCmd struct {
	Out     string `type:"path" default:"out" help:"Directory containing published metadata"`
	HTML    string `name:"html" type:"path" default:"out_html" help:"Output directory for HTML lists"`
	SiteURL string `name:"site-url" help:"Public URL of the HTML lists; writes sitemap.xml when set"`
}

// CheckLinksCmd is the "check-links" subcommand.
type CheckLinksCmd struct {
	List        string  `type:"path" default:"out/file-list.txt" help:"File list written by convert"`
	Base        string  `default:"${base_url}" help:"URL the listed paths are relative to"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent request limit"`
	RPS         float64 `name:"rps" default:"2" help:"Requests per second per host"`
}
