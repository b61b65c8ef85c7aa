package main

import (
	"fmt"

	"github.com/fwojciec/doclog"
	"github.com/fwojciec/doclog/fs"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doclog.ErrorMessage(err))
		return err
	}

	if err := fs.WriteFileAtomic(c.Output, []byte(html)); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d bytes to %s\n", len(html), c.Output)
	return nil
}
