package ui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"tmsync/internal/config"
	"tmsync/internal/discovery"
	"tmsync/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	loader *discovery.Loader
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config, loader *discovery.Loader) *Formatter {
	return &Formatter{
		config: cfg,
		loader: loader,
	}
}

// PrintRunStats displays the meta statistics of a finished run
func (f *Formatter) PrintRunStats(report *domain.RunReport) {
	meta := report.Meta

	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║ %-61s ║", "Sync Statistics ("+meta.Command+")")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	row := func(label string, paint func(format string, a ...interface{}), value interface{}) {
		fmt.Printf("│ %-31s │ ", label)
		paint("%-27v │\n", value)
	}
	sep := func() {
		fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
	}

	switch meta.Command {
	case "export":
		row("Exported Tests", color.Green, meta.Exported)
		sep()
	default:
		row("Spec Files", color.White, meta.TotalFiles)
		sep()
		row("Failed Files", color.Red, meta.FailedFiles)
		sep()
		if meta.Command == "upload" {
			row("Created", color.Green, meta.Created)
			sep()
			row("Updated", color.Green, meta.Updated)
			sep()
			row("Skipped (no steps)", color.Yellow, meta.Skipped)
			sep()
		}
	}
	row("Duration", color.White, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	sep()
	row("Workers", color.White, meta.Workers)
	sep()
	row("Timestamp", color.White, meta.Timestamp)
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Println()
	switch {
	case meta.FailedFiles > 0:
		color.Red("✗ %d spec file(s) failed validation", meta.FailedFiles)
	case meta.DryRun:
		color.Yellow("✓ Dry run: nothing was sent to the remote service")
	default:
		color.Green("✓ Done!")
	}
}

// PrintValidationFailures prints every failing spec file with its line errors as a tree
func (f *Formatter) PrintValidationFailures(issues []domain.FileIssue) {
	if len(issues) == 0 {
		return
	}

	color.Red("✗ %d spec file(s) have errors, nothing was uploaded:\n", len(issues))

	root := &TreeNode{Name: "", Children: make(map[string]*TreeNode)}
	for _, issue := range issues {
		parts := strings.Split(filepath.ToSlash(f.relPath(issue.FilePath)), "/")
		current := root
		for i, part := range parts {
			if part == "" || part == "." {
				continue
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
			}
			current = current.Children[part]
		}
		current.Errors = issue.Errors
	}

	f.printTreeNode(root, "")
}

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Errors   []domain.LineError
	IsFile   bool
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	var keys []string
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1

		connector, childPrefix := "├── ", "│   "
		if last {
			connector, childPrefix = "└── ", "    "
		}

		if child.IsFile {
			color.Yellow("%s%s%s", prefix, connector, child.Name)
			for j, e := range child.Errors {
				errConnector := "├── "
				if j == len(child.Errors)-1 {
					errConnector = "└── "
				}
				color.Red("%s%s%sline %d: %s", prefix, childPrefix, errConnector, e.Line, e.Message)
			}
		} else {
			color.Cyan("%s%s%s", prefix, connector, child.Name)
		}

		f.printTreeNode(child, prefix+childPrefix)
	}
}

func (f *Formatter) relPath(path string) string {
	if rel, ok := relTo(f.config.GetSpecRoot(), path); ok {
		return rel
	}
	return path
}

func relTo(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}

// PrintSpecList prints a list of spec files, optionally with their steps.
// Files failing to parse are marked with [E].
func (f *Formatter) PrintSpecList(specs []string, showSteps bool) error {
	color.Green("Found %d spec file(s):\n", len(specs))

	for i, spec := range specs {
		test, err := f.loader.Load(spec)
		if err != nil {
			return err
		}

		marker := ""
		if test.HasErrors() {
			marker = " " + color.RedString("[E]")
		}

		lastFile := i == len(specs)-1
		connector, childPrefix := "├── ", "│   "
		if lastFile {
			connector, childPrefix = "└── ", "    "
		}
		color.Cyan("%s%s%s", connector, f.relPath(spec), marker)

		if !showSteps {
			continue
		}

		if len(test.Steps) == 0 {
			fmt.Printf("%s└── %s\n", childPrefix, color.RedString("(no steps)"))
		}
		for j, step := range test.Steps {
			stepConnector := "├── "
			if j == len(test.Steps)-1 {
				stepConnector = "└── "
			}
			fmt.Printf("%s%s%s %s %s\n", childPrefix, stepConnector,
				color.YellowString(step.Action), color.WhiteString("→"), step.Response)
		}
		if !lastFile {
			fmt.Println()
		}
	}

	return nil
}
