package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar       *progressbar.ProgressBar
	label     string
	total     int
	completed int
}

// NewProgressBar creates a new progress bar for count units of work
func NewProgressBar(label string, count int) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(label, 0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar, label: label, total: count}
}

func describe(label string, okCount, failCount int) string {
	return color.CyanString("%s: ", label) +
		color.GreenString("[ok: %d", okCount) +
		" | " +
		color.RedString("failed: %d]", failCount)
}

// Update moves the bar to completed units and refreshes the counters
func (p *ProgressBar) Update(completed, succeeded, failed int) {
	p.completed = completed
	_ = p.bar.Set(completed)
	p.bar.Describe(describe(p.label, succeeded, failed))
}

// Finish completes the progress bar. A batch stopped early leaves the bar where it was.
func (p *ProgressBar) Finish() {
	if p.completed < p.total {
		_ = p.bar.Exit()
		fmt.Fprint(os.Stderr, "\n")
		return
	}
	_ = p.bar.Finish()
}
