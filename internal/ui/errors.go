package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tmsync/internal/config"
	"tmsync/internal/domain"
	"tmsync/internal/storage"
)

// Viewer displays a saved run report
type Viewer interface {
	View(report *domain.RunReport) error
}

// ErrorViewer displays spec files that failed validation in an interactive TUI
type ErrorViewer struct {
	config  *config.Config
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(cfg *config.Config, st storage.Storage) *ErrorViewer {
	return &ErrorViewer{
		config:  cfg,
		storage: st,
	}
}

// View displays the failing files of a report. R toggles the resolved mark of the
// selected file, which is saved back to the report.
func (ev *ErrorViewer) View(report *domain.RunReport) error {
	if len(report.Details) == 0 {
		color.Green("✓ No spec file errors found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i := range report.Details {
		list.AddItem(ev.listItemText(report, i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(detailsView, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		unresolved := 0
		for _, issue := range report.Details {
			if !issue.Resolved {
				unresolved++
			}
		}
		headerView.SetText(fmt.Sprintf(" Spec Errors (%d files, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, Ctrl+C exit ", len(report.Details), unresolved))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(report.Details) {
			detailsView.SetText(formatIssueDetails(report.Details[index]))
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(report.Details) {
					report.Details[index].Resolved = !report.Details[index].Resolved
					list.SetItemText(index, ev.listItemText(report, index), "")
					updateHeader()
					updateDetails()
					// A failed save only loses the resolved marks
					_ = ev.storage.SaveReport(report)
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

func (ev *ErrorViewer) listItemText(report *domain.RunReport, index int) string {
	issue := report.Details[index]
	name := issue.FilePath
	if rel, ok := relTo(ev.config.GetSpecRoot(), name); ok {
		name = rel
	}
	if issue.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

// formatIssueDetails formats the errors of one file using tview color tags
func formatIssueDetails(issue domain.FileIssue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[cyan]File: %s[white]\n\n", issue.FilePath)
	for _, e := range issue.Errors {
		fmt.Fprintf(&b, "[yellow]line %d:[white] %s\n", e.Line, tview.Escape(e.Message))
	}
	return b.String()
}
