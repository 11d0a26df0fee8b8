package main

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"teamlookup/internal/debug"
	appErrors "teamlookup/internal/errors"
	"teamlookup/internal/lookup"
)

type searchOptions struct {
	term     string
	contacts bool
	teamID   string
	policy   lookup.Policy
	timeout  time.Duration
}

// runSearch drives a lookup machine on wall-clock timers, the same way the
// UI does, and prints the first result set.
func runSearch(ctx context.Context, w io.Writer, provider lookup.Provider, opts searchOptions) error {
	sched := lookup.NewRealScheduler()
	defer sched.Stop()

	machine := lookup.New(lookup.ModeMulti,
		lookup.WithPolicy(opts.policy),
		lookup.WithScheduler(sched),
		lookup.WithParent(opts.teamID),
	)
	defer machine.Dispose()

	minLen := machine.Policy().MinQueryLength
	if n := utf8.RuneCountInString(lookup.Normalize(opts.term)); opts.term != "" && n < minLen {
		return appErrors.New(appErrors.CodeInvalidRecord,
			fmt.Sprintf("search term must have at least %d characters", minLen), nil)
	}

	requests := make(chan lookup.SearchRequest, 1)
	machine.Subscribe(func(e lookup.Event) {
		if e, ok := e.(lookup.SearchRequested); ok {
			select {
			case requests <- e.Request:
			default:
			}
		}
	})
	machine.OnTextChanged(opts.term)

	timeout := opts.timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-sched.Fired():
			machine.Fire(t)
		case req := <-requests:
			debug.Logf("headless search %q parent=%q", req.Query, req.ParentID)
			searchCtx, cancel := context.WithTimeout(ctx, timeout)
			results, err := provider.Search(searchCtx, req)
			cancel()
			if err != nil {
				machine.SearchFailed(req.Query, err)
				return err
			}
			machine.SetSearchResults(results)
			return printResults(w, req, machine.Results())
		}
	}
}

func printResults(w io.Writer, req lookup.SearchRequest, results []lookup.Result) error {
	header := lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	dim := lipgloss.NewStyle().Foreground(dimColor)

	label := fmt.Sprintf("%q", req.Query)
	if req.Query == "" {
		label = "all records"
	}
	if _, err := fmt.Fprintln(w, header.Render("Results for "+label)+dim.Render(fmt.Sprintf(" (%d)", len(results)))); err != nil {
		return err
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, dim.Render("No matches."))
		return err
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.ID, r.Title, r.Subtitle})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dim).
		Headers("ID", "NAME", "DETAILS").
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}
