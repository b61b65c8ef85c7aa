package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/doclog"
	dochttp "github.com/fwojciec/doclog/http"
	"github.com/fwojciec/doclog/linkcheck"
)

// Run executes the check-links command.
func (c *CheckLinksCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.List)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Run 'doclog convert' first")
		return fmt.Errorf("failed to read file list: %w", err)
	}

	checker := &linkcheck.Checker{
		Prober:      deps.Prober,
		RateLimiter: linkcheck.NewHostLimiter(c.RPS),
		Concurrency: c.Concurrency,
		RetryDelays: dochttp.DefaultRetryDelays(),
		Logger:      deps.Logger,
	}

	statuses, err := checker.Check(deps.Ctx, linkcheck.ParseList(string(data), c.Base))
	if err != nil {
		return err
	}

	broken := 0
	for _, st := range statuses {
		if st.OK() {
			continue
		}
		broken++
		if st.Err != nil {
			fmt.Fprintf(deps.Stdout, "ERR %s: %v\n", st.URL, st.Err)
		} else {
			fmt.Fprintf(deps.Stdout, "%d %s\n", st.Status, st.URL)
		}
	}

	fmt.Fprintf(deps.Stdout, "Checked %d links, %d broken\n", len(statuses), broken)
	if broken > 0 {
		return doclog.Errorf(doclog.ENOTFOUND, "%d broken links", broken)
	}
	return nil
}
