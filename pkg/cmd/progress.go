package cmd

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

// ProgressBar renders the repository walk as a terminal progress bar.
type ProgressBar struct {
	title string
	bar   *pterm.ProgressbarPrinter
}

// NewProgress returns a ProgressBar when enabled, otherwise a Progress that reports nothing.
func NewProgress(enabled bool) orgstats.Progress {
	if !enabled {
		return orgstats.NoOpProgress{}
	}
	return &ProgressBar{}
}

// Start implements orgstats.Progress.
func (p *ProgressBar) Start(title string, total int) {
	p.title = title
	if total == 0 {
		return
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithShowElapsedTime(true).
		WithShowCount(true).
		Start()
	if err != nil {
		return
	}
	p.bar = bar
}

// Increment implements orgstats.Progress.
func (p *ProgressBar) Increment(repoName string) {
	if p.bar == nil {
		return
	}
	p.bar.UpdateTitle(fmt.Sprintf("%s (%s)", p.title, repoName))
	p.bar.Increment()
}

// Stop implements orgstats.Progress.
func (p *ProgressBar) Stop() {
	if p.bar == nil {
		return
	}
	_, _ = p.bar.Stop()
	p.bar = nil
}
