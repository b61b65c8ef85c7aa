package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/doclog"
	dochttp "github.com/fwojciec/doclog/http"
	docslog "github.com/fwojciec/doclog/slog"
	"github.com/fwojciec/doclog/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Nil values are replaced by HTTP
	// implementations.
	Fetcher doclog.Fetcher
	Prober  doclog.Prober
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("doclog"),
		kong.Description("Curate the WG14 document log into stable logical documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"log_url":  doclog.LogURL,
			"base_url": doclog.BaseURL,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'doclog --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level, err := docslog.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cli.Reference != "" {
		deps.Reference, err = yaml.Load(cli.Reference)
	} else {
		deps.Reference, err = yaml.Default()
	}
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set DOCLOG_REFERENCE or --reference to use different reference data")
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	httpFetcher := dochttp.NewFetcher()
	deps.Fetcher = m.Fetcher
	if deps.Fetcher == nil {
		deps.Fetcher = dochttp.NewRetryFetcher(httpFetcher, nil, deps.Logger)
	}
	deps.Fetcher = docslog.NewLoggingFetcher(deps.Fetcher, deps.Logger)
	defer deps.Fetcher.Close()

	deps.Prober = m.Prober
	if deps.Prober == nil {
		deps.Prober = httpFetcher
	}
	deps.Prober = docslog.NewLoggingProber(deps.Prober, deps.Logger)

	return kongCtx.Run(deps)
}
