package commands

import (
	"os"

	"github.com/spf13/cobra"

	"tmsync/internal/api"
	"tmsync/internal/cli"
	"tmsync/internal/config"
	"tmsync/internal/discovery"
	"tmsync/internal/execution"
	"tmsync/internal/logging"
	"tmsync/internal/parser"
	"tmsync/internal/pipeline"
	"tmsync/internal/specfile"
	"tmsync/internal/storage"
	"tmsync/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	deps     *dependencies
	Export   *ExportCommand
	Upload   *UploadCommand
	Validate *ValidateCommand
	New      *NewCommand
	List     *ListCommand
	Errors   *ErrorsCommand
	Whoami   *WhoamiCommand
}

// dependencies are wired after flags and configuration are loaded
type dependencies struct {
	version   string
	client    *api.Client
	store     *specfile.Store
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	loader    *discovery.Loader
	gate      *pipeline.Gate
	exporter  *pipeline.Exporter
	uploader  *pipeline.Uploader
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    *ui.ErrorViewer
}

func (d *dependencies) wire(cfg *config.Config) {
	d.client = api.New(cfg.BaseURL, cfg.Token, d.version, cfg.PageSize)
	d.store = specfile.NewStore(cfg)
	d.scanner = discovery.NewScanner(cfg.Extension, cfg.PathsToIgnore)
	d.filter = discovery.NewFilter()
	d.loader = discovery.NewLoader(parser.NewTextParser())
	d.gate = pipeline.NewGate(d.store, d.scanner, d.loader)

	d.exporter = pipeline.NewExporter(cfg, d.client, d.store, d.scanner, d.loader, execution.NewWorkerPool(cfg))
	d.exporter.SetProgress(newProgressBar)
	d.uploader = pipeline.NewUploader(cfg, d.client, d.store, d.gate, execution.NewWorkerPool(cfg))
	d.uploader.SetProgress(newProgressBar)

	d.storage = storage.NewJSONStorage(cfg)
	d.formatter = ui.NewFormatter(cfg, d.loader)
	d.viewer = ui.NewErrorViewer(cfg, d.storage)
}

func newProgressBar(label string, total int) execution.Progress {
	return ui.NewProgressBar(label, total)
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, version string) *Commands {
	deps := &dependencies{version: version}

	return &Commands{
		deps:     deps,
		Export:   NewExportCommand(cfg, deps),
		Upload:   NewUploadCommand(cfg, deps),
		Validate: NewValidateCommand(cfg, deps),
		New:      NewNewCommand(cfg, deps),
		List:     NewListCommand(cfg, deps),
		Errors:   NewErrorsCommand(cfg, deps),
		Whoami:   NewWhoamiCommand(cfg, deps),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose output: debug logging and step comments in exported files")
	rootCmd.PersistentFlags().StringVarP(&flags.Project, "project", "C", "", "Project directory holding the spec root and .tmsync.yaml")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Update config with flags after parsing
		cfg.Flags = flags.ToConfigFlags()
		logging.Init(flags.Verbose, os.Stderr)

		if flags.Project != "" {
			cfg.ProjectPath = flags.Project
		}
		if err := cfg.Load(); err != nil {
			return err
		}
		if flags.Processors > 0 {
			cfg.Processors = flags.Processors
		}

		c.deps.wire(cfg)
		return nil
	}

	// Export command
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export remote tests to local spec files",
		Long:  "Download every remote test and write it as a plain-text spec file under the spec root",
		Args:  cobra.NoArgs,
		RunE:  c.Export.Execute,
	}
	exportCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of concurrent requests (default from config, 4)")
	rootCmd.AddCommand(exportCmd)

	// Upload command
	uploadCmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload local spec files to the remote service",
		Long:  "Validate every spec file, then create or update one remote test per file. Nothing is sent if any file is invalid.",
		Args:  cobra.NoArgs,
		RunE:  c.Upload.Execute,
	}
	uploadCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of concurrent requests (default from config, 4)")
	uploadCmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Plan creates and updates without sending anything")
	uploadCmd.Flags().BoolVar(&flags.OpenErrors, "open-errors", false, "Open the errors viewer when validation fails")
	rootCmd.AddCommand(uploadCmd)

	// Validate command
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every spec file for errors",
		Long:  "Parse all spec files under the spec root and report every error, without contacting the remote service",
		Args:  cobra.NoArgs,
		RunE:  c.Validate.Execute,
	}
	validateCmd.Flags().BoolVar(&flags.OpenErrors, "open-errors", false, "Open the errors viewer when validation fails")
	rootCmd.AddCommand(validateCmd)

	// New command
	newCmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new spec file",
		Long:  "Create a spec file with a fresh identity and authoring instructions. Without a name one is generated.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.New.Execute,
	}
	rootCmd.AddCommand(newCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List local spec files",
		Long:  "Scan the spec root and list spec files, optionally with their steps",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter spec files by name pattern (supports wildcards, e.g., '*login*')")
	listCmd.Flags().BoolVarP(&flags.ShowSteps, "steps", "s", false, "Show the steps of every spec file")
	rootCmd.AddCommand(listCmd)

	// Errors command
	errorsCmd := &cobra.Command{
		Use:   "errors",
		Short: "View spec file errors interactively",
		Long:  "Display the spec file errors of the last validate or upload run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Errors.Execute,
	}
	rootCmd.AddCommand(errorsCmd)

	// Whoami command
	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the configured token",
		Args:  cobra.NoArgs,
		RunE:  c.Whoami.Execute,
	}
	rootCmd.AddCommand(whoamiCmd)
}
